package extract

import (
	"errors"
	"fmt"
	"strings"

	"registry-sync/core/utils"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoBlockSelector is returned when a layout cannot locate any block.
var ErrNoBlockSelector = errors.New("layout has no block selector")

// Extract walks markup block by block and yields one RawRecord per block,
// in document order.
func Extract(markup string, layout Layout, dict Dictionary) ([]RawRecord, error) {
	if layout.Block == "" {
		return nil, ErrNoBlockSelector
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	records := make([]RawRecord, 0)
	doc.Find(layout.Block).Each(func(_ int, block *goquery.Selection) {
		records = append(records, extractBlock(block, layout, dict))
	})

	return records, nil
}

func extractBlock(block *goquery.Selection, layout Layout, dict Dictionary) RawRecord {
	rec := RawRecord{
		Labels: make(map[string]string),
		Fields: make(map[Field]string),
	}

	if layout.Section != "" && layout.SectionName != "" {
		name := block.Closest(layout.Section).Find(layout.SectionName).First()
		if name.Length() > 0 {
			rec.Name = utils.CleanText(name.Text())
		}
	}

	for _, set := range layout.Rows {
		block.Find(set.Row).Each(func(_ int, row *goquery.Selection) {
			label := row.Find(set.Label).First()
			value := row.Find(set.Value).First()
			if label.Length() == 0 || value.Length() == 0 {
				return
			}
			key := utils.CleanText(label.Text())
			val := utils.CleanText(value.Text())
			rec.Labels[key] = val

			rule, ok := dict.Match(key)
			if !ok {
				return
			}
			if rule.UseLabel {
				val = key
			}
			rec.Fields[rule.Field] = val
		})
	}

	rec.Reissues = extractReissues(block, layout)
	rec.Capabilities = extractCapabilities(block, layout)

	return rec
}

func extractReissues(block *goquery.Selection, layout Layout) [][]string {
	if layout.ReissueTable == "" {
		return nil
	}
	table := block.Find(layout.ReissueTable).First()
	if table.Length() == 0 {
		return nil
	}

	cellSel := layout.ReissueCell
	if cellSel == "" {
		cellSel = "td"
	}

	var rows [][]string
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find(cellSel)
		if cells.Length() == 0 || cells.Length() < layout.ReissueMinCells {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, utils.CleanText(td.Text()))
		})
		rows = append(rows, row)
	})
	return rows
}

// extractCapabilities pairs every header with the first table that starts
// after it inside the block. Consecutive headers share that table.
func extractCapabilities(block *goquery.Selection, layout Layout) []CapabilityRow {
	if layout.CapabilityHeader == "" {
		return nil
	}

	var (
		rows    []CapabilityRow
		pending []string
	)
	block.Find(layout.CapabilityHeader + ", table").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "table" {
			pending = append(pending, strings.ReplaceAll(utils.CleanText(s.Text()), ":", ""))
			return
		}
		if len(pending) == 0 {
			return
		}
		for _, section := range pending {
			s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
				cells := tr.ChildrenFiltered("td")
				if cells.Length() != 2 {
					return
				}
				rows = append(rows, CapabilityRow{
					Section: strings.TrimSpace(section),
					Label:   utils.CleanText(cells.Eq(0).Text()),
					Mark:    utils.CleanText(cells.Eq(1).Text()),
				})
			})
		}
		pending = nil
	})
	return rows
}
