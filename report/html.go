package report

import (
	"html"
	"strings"
)

const (
	tableStyle   = "color:#000000;border-collapse:collapse;word-break:keep-all;white-space:nowrap;font-size:15px;width:100%;"
	cellStyle    = "border:1px solid #000000;padding:5px;"
	captionStyle = "color:#000000;font-size:15px;width:500px;"
)

// RenderHTML renders the report as the mail body: the same tables as the
// workbook, with inline styles so the fragment survives mail clients that
// strip stylesheets.
func RenderHTML(rep *Report) string {
	var b strings.Builder
	for _, sec := range rep.Sections {
		writeHeading(&b, sec.Sheet)
		for _, t := range sec.Tables {
			writeTable(&b, t)
		}
	}
	return b.String()
}

func writeHeading(b *strings.Builder, text string) {
	b.WriteString(`<p style="color:#000000;font-size:25px;font-weight:bold;">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString("</p>\n")
}

func writeTable(b *strings.Builder, t *Table) {
	b.WriteString(`<table style="` + tableStyle + `">`)
	if t.Caption != "" {
		b.WriteString(`<caption style="` + captionStyle)
		if t.CaptionColor != "" {
			b.WriteString("background-color:#" + t.CaptionColor + ";")
		}
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(t.Caption))
		b.WriteString("</caption>")
	}
	if len(t.Header) > 0 {
		b.WriteString("<tr>")
		for _, h := range t.Header {
			b.WriteString(`<th style="` + cellStyle + `">`)
			b.WriteString(html.EscapeString(h))
			b.WriteString("</th>")
		}
		b.WriteString("</tr>")
	}
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString(`<td style="` + cellStyle)
			if c.Color != "" {
				b.WriteString("background-color:#" + c.Color + ";")
			}
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(c.Text))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>\n<br/>\n")
}
