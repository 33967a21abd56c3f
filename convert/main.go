package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/speedata/imgbinder/backend/bag"
	"github.com/speedata/imgbinder/backend/document"
	"github.com/speedata/imgbinder/backend/page"
	"github.com/speedata/imgbinder/frontend"
	"github.com/speedata/optionparser"
	"go.uber.org/zap/zapcore"
)

func dothings() error {
	var (
		pagesize  = page.Default.Key
		margin    = "0"
		output    = document.DefaultFilename
		title     string
		author    string
		subject   string
		keywords  string
		quality   = "0"
		trace     bool
		verbose   bool
		quiet     bool
		listSizes bool
		unit      = "mm"
	)
	op := optionparser.NewOptionParser()
	op.Banner = "Usage: convert [options] image[@rotation] ...\nEach image becomes one page. A rotation (90, 180, 270 or -90) turns the image clockwise."
	op.On("--pagesize NAME", "Page size (letter, legal, tabloid, a4, a3)", &pagesize)
	op.On("--margin PERCENT", "Margin on each side (0, 2, 5, 10, 15 or 20 percent)", &margin)
	op.On("-o", "--output FILENAME", "Name of the PDF file", &output)
	op.On("--title TITLE", "Document title", &title)
	op.On("--author AUTHOR", "Document author", &author)
	op.On("--subject SUBJECT", "Document subject", &subject)
	op.On("--keywords KEYWORDS", "Document keywords", &keywords)
	op.On("--quality Q", "Store images as JPEG with quality Q (1-100), 0 is lossless", &quality)
	op.On("--trace", "Outline images and margins", &trace)
	op.On("--list-sizes", "Show the available page sizes", &listSizes)
	op.On("--unit UNIT", "Unit for --list-sizes (pt, in, mm, cm, px, pc)", &unit)
	op.On("-v", "--verbose", "Show debug messages", &verbose)
	op.On("-q", "--quiet", "Show errors only", &quiet)
	if err := op.Parse(); err != nil {
		return err
	}

	if _, err := bag.NewConsoleLogger(); err != nil {
		return err
	}
	switch {
	case verbose:
		bag.SetLogLevel(zapcore.DebugLevel)
	case quiet:
		bag.SetLogLevel(zapcore.ErrorLevel)
	}
	defer bag.Logger.Sync()

	if listSizes {
		for _, k := range page.Keys() {
			g, _ := page.Lookup(k)
			wd, ht, err := g.Dimensions(unit)
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %8.2f × %8.2f %s\n", g.Key, wd, ht, unit)
		}
		return nil
	}
	if len(op.Extra) == 0 {
		op.Help()
		return nil
	}

	c := frontend.New()
	var err error
	if c.Geometry, err = page.Lookup(pagesize); err != nil {
		return err
	}
	if c.Margin, err = page.ParseMargin(margin); err != nil {
		return err
	}
	if c.JPEGQuality, err = strconv.Atoi(quality); err != nil || c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("quality must be a number between 0 and 100, got %q", quality)
	}
	c.Title = title
	c.Author = author
	c.Subject = subject
	c.Keywords = keywords
	c.Trace = trace
	if !quiet {
		c.Progress = func(percent float64) {
			fmt.Fprintf(os.Stderr, "\r%3.0f%%", percent)
			if percent >= 100 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	if err = c.AddFileSpecs(op.Extra...); err != nil {
		return err
	}
	n, err := c.Convert(output)
	if err != nil {
		return err
	}
	bag.Logger.Infof("%d page(s) written to %s", n, output)
	return nil
}

func main() {
	if err := dothings(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
