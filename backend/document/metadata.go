package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var xmlescape = strings.NewReplacer("<", "&lt;", "&", "&amp;")

func (d *PDFDocument) getMetadata() string {
	isoformatted := d.CreationDate.Format(time.RFC3339)
	docID := uuid.New()
	instanceID := uuid.New()

	str := `<?xpacket begin="%[1]s" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description rdf:about="" xmlns:xmpMM="http://ns.adobe.com/xap/1.0/mm/">
      <xmpMM:DocumentID>uuid:%[2]s</xmpMM:DocumentID>
      <xmpMM:InstanceID>uuid:%[3]s</xmpMM:InstanceID>
    </rdf:Description>
    <rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/">
      <xmp:CreateDate>%[4]s</xmp:CreateDate>
      <xmp:ModifyDate>%[4]s</xmp:ModifyDate>
      <xmp:MetadataDate>%[4]s</xmp:MetadataDate>
      <xmp:CreatorTool>%[5]s</xmp:CreatorTool>
    </rdf:Description>
    <rdf:Description rdf:about="" xmlns:pdf="http://ns.adobe.com/pdf/1.3/">
      <pdf:Producer>%[6]s</pdf:Producer>%[9]s
    </rdf:Description>
    <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
      <dc:format>application/pdf</dc:format>
      <dc:title>%[7]s</dc:title>
      <dc:creator>%[8]s</dc:creator>%[10]s
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>
<?xpacket end="r"?>`

	var keywords string
	if d.Keywords != "" {
		keywords = fmt.Sprintf(`
      <pdf:Keywords>%s</pdf:Keywords>`, xmlescape.Replace(d.Keywords))
	}
	var description string
	if d.Subject != "" {
		description = fmt.Sprintf(`
      <dc:description>%s</dc:description>`, xmlescape.Replace(d.Subject))
	}
	return fmt.Sprintf(str,
		"\xEF\xBB\xBF",
		docID,
		instanceID,
		isoformatted,
		xmlescape.Replace(d.Creator),
		xmlescape.Replace(d.producer),
		xmlescape.Replace(d.Title),
		xmlescape.Replace(d.Author),
		keywords,
		description,
	)
}
