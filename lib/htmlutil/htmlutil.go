// Package htmlutil extracts data tables from scraped auction pages.
package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("lienterminal.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText returns the cleaned visible text of one cell selection.
func CellText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		parts = append(parts, GetText(n))
	}
	text := removeNonPrintable(strings.Join(parts, " "))
	text = strings.Trim(text, " \t\n")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// Table is one header-bearing HTML table, cells as cleaned text.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tables walks every <table> in the document and returns those that carry a
// header row. Tables without a single <th> are layout scaffolding on these
// county sites and are skipped.
func Tables(ctx context.Context, doc *goquery.Document) []Table {
	ctx, span := tracer.Start(ctx, "Tables")
	defer span.End()

	var tables []Table
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		if tbl.Find("th").Length() == 0 {
			return
		}

		var table Table
		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			empty := true
			row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				text := CellText(cell)
				if text != "" {
					empty = false
				}
				cells = append(cells, text)
			})
			if empty {
				return
			}
			if table.Headers == nil {
				table.Headers = cells
				return
			}
			table.Rows = append(table.Rows, cells)
		})

		if table.Headers == nil {
			return
		}
		span.AddEvent("table", trace.WithAttributes(
			attribute.Int("columns", len(table.Headers)),
			attribute.Int("rows", len(table.Rows)),
		))
		tables = append(tables, table)
	})

	return tables
}
