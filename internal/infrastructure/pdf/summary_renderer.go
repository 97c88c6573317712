// Package pdf genera la representación PDF del resumen operativo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organização  │  Período + fecha de emisión         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COLETA: execuções / paradas / taxa / kg                    │
//	│  TABLA: Material | Categoria | Kg                            │
//	│  TABLA: Equipe | Execuções | Paradas | Kg                    │
//	│  ESTOQUE + motivos de não coleta                             │
//	│  TABLA: últimas movimentações                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/reports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 110, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ reports.SummaryRenderer = (*SummaryRenderer)(nil)

// SummaryRenderer implementa reports.SummaryRenderer usando Maroto v2.
type SummaryRenderer struct {
	p   *message.Printer
	now func() time.Time
}

// NewSummaryRenderer construye el generador con formato numérico pt-BR.
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{p: message.NewPrinter(language.BrazilianPortuguese), now: time.Now}
}

// RenderSummary genera el PDF y devuelve sus bytes.
func (g *SummaryRenderer) RenderSummary(orgName string, s *dto.ReportSummaryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório operacional", true).
		WithAuthor(orgName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(orgName, s.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.collectionRow(s.Collection))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("COLETADO POR MATERIAL"))
	m.AddRows(tableHeaderRow([]string{"Material", "Categoria", "Kg"}, []int{6, 3, 3}))
	for _, mt := range s.CollectedByMaterial {
		m.AddRows(tableRow([]string{mt.Name, deref(mt.Category, "—"), g.kg(mt.TotalKg)}, []int{6, 3, 3}))
	}

	m.AddRows(sectionRow("PRODUTIVIDADE DAS EQUIPES"))
	m.AddRows(tableHeaderRow([]string{"Equipe", "Execuções", "Paradas", "Kg"}, []int{6, 2, 2, 2}))
	for _, t := range s.TeamProductivity {
		m.AddRows(tableRow([]string{t.Name, g.p.Sprintf("%d", t.Runs), g.p.Sprintf("%d", t.StopsCompleted), g.kg(t.TotalKg)}, []int{6, 2, 2, 2}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Estoque disponível: "+g.kg(s.Stock.TotalAvailableKg)+" kg", props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		}),
	)))

	if len(s.SkipReasons) > 0 {
		m.AddRows(sectionRow("MOTIVOS DE NÃO COLETA"))
		for _, r := range s.SkipReasons {
			m.AddRows(tableRow([]string{r.Reason, g.p.Sprintf("%d", r.Count)}, []int{10, 2}))
		}
	}

	if len(s.RecentMovements) > 0 {
		m.AddRows(sectionRow("ÚLTIMAS MOVIMENTAÇÕES"))
		m.AddRows(tableHeaderRow([]string{"Data", "Tipo", "Material", "Kg"}, []int{3, 2, 5, 2}))
		for _, mv := range s.RecentMovements {
			material := "—"
			if mv.Lot != nil && mv.Lot.MaterialType != nil {
				material = mv.Lot.MaterialType.Name
			}
			m.AddRows(tableRow([]string{mv.MovedAt.Format("02/01/2006 15:04"), mv.Type, material, g.kg(mv.QuantityKg)}, []int{3, 2, 5, 2}))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *SummaryRenderer) headerRow(orgName string, p dto.PeriodResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(orgName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Relatório operacional de coleta", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Período: "+deref(p.From, "início")+" a "+deref(p.To, "hoje"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Emitido em "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *SummaryRenderer) collectionRow(c dto.CollectionStats) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 6}),
		)
	}
	return row.New(16).Add(
		cell("Execuções", g.p.Sprintf("%d", c.TotalRuns)),
		cell("Concluídas", g.p.Sprintf("%d", c.CompletedRuns)),
		cell("Paradas", g.p.Sprintf("%d", c.TotalStops)),
		cell("Coletadas", g.p.Sprintf("%d", c.CompletedStops)),
		cell("Conclusão", g.p.Sprintf("%d%%", c.CompletionRate)),
		cell("Kg coletados", g.kg(c.TotalCollectedKg)),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
	))
}

func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Right: 1}))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Right: 1}))
	}
	return row.New(5).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// kg formatea con separadores pt-BR. Ej: 1234.5 → "1.234,50"
func (g *SummaryRenderer) kg(d decimal.Decimal) string {
	return g.p.Sprintf("%.2f", d.InexactFloat64())
}

func deref(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
