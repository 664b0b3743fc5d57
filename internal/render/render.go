package render

import (
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/guttosm/tktmap/internal/domain/models"
)

//go:embed map.html.tmpl
var mapTemplate string

var page = template.Must(template.New("map").Parse(mapTemplate))

const heatLayerName = "Mapa de calor (margem)"

// LegendItem is one line of the color legend.
type LegendItem struct {
	Symbol string
	Text   string
}

// DefaultLegend describes the four marker colors.
func DefaultLegend() []LegendItem {
	return []LegendItem{
		{Symbol: "🟠", Text: "Clientes em negociação"},
		{Symbol: "⚫", Text: "Clientes com tkt médio zerado (sem compras)"},
		{Symbol: "🟢", Text: "Clientes na faixa máximo, regular ou acima"},
		{Symbol: "🛑", Text: "Demais clientes"},
	}
}

// Options configures the generated page.
type Options struct {
	Title     string
	Zoom      int
	Threshold float64 // shown in the heat legend line
	Legend    []LegendItem
}

// DefaultOptions mirrors the historical map: zoom 8 and the four-color legend.
func DefaultOptions() Options {
	return Options{Title: "Mapa de clientes - ticket médio", Zoom: 8, Threshold: 25, Legend: DefaultLegend()}
}

// Renderer writes a classified Result as a standalone Leaflet page.
type Renderer struct {
	opts Options
}

// New returns a Renderer with opts.
func New(opts Options) *Renderer {
	if opts.Zoom <= 0 {
		opts.Zoom = 8
	}
	if opts.Legend == nil {
		opts.Legend = DefaultLegend()
	}
	return &Renderer{opts: opts}
}

type markerView struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

type layerView struct {
	Name    string       `json:"name"`
	Markers []markerView `json:"markers"`
}

type dataView struct {
	Center   [2]float64   `json:"center"`
	Zoom     int          `json:"zoom"`
	Layers   []layerView  `json:"layers"`
	Heat     [][3]float64 `json:"heat"`
	HeatName string       `json:"heatName"`
	HeatMax  float64      `json:"heatMax"`
}

type pageView struct {
	Title       string
	Legend      []LegendItem
	HeatEnabled bool
	Threshold   string
	Total       int
	GeneratedAt string
	Data        dataView
}

// Render writes the HTML page for res to w.
func (r *Renderer) Render(w io.Writer, res *models.Result) error {
	if res == nil {
		return fmt.Errorf("render: nil result")
	}

	v := pageView{
		Title:       r.opts.Title,
		Legend:      r.opts.Legend,
		HeatEnabled: len(res.Heat) > 0,
		Threshold:   formatNumber(r.opts.Threshold),
		Total:       res.Total(),
		GeneratedAt: res.GeneratedAt.Format("02/01/2006 15:04"),
		Data: dataView{
			Center:   [2]float64{res.Bounds.CenterLat, res.Bounds.CenterLng},
			Zoom:     r.opts.Zoom,
			Layers:   make([]layerView, 0, len(res.Groups)),
			HeatName: heatLayerName,
		},
	}

	for _, g := range res.Groups {
		lv := layerView{Name: g.Name, Markers: make([]markerView, 0, len(g.Records))}
		for _, rec := range g.Records {
			lv.Markers = append(lv.Markers, markerView{
				Lat:     rec.Latitude,
				Lng:     rec.Longitude,
				Color:   rec.Color.String(),
				Tooltip: Tooltip(rec),
			})
		}
		v.Data.Layers = append(v.Data.Layers, lv)
	}

	for _, h := range res.Heat {
		v.Data.Heat = append(v.Data.Heat, [3]float64{h.Lat, h.Lng, h.Weight})
		if h.Weight > v.Data.HeatMax {
			v.Data.HeatMax = h.Weight
		}
	}

	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Tooltip builds the marker tooltip HTML. Cell values are escaped.
func Tooltip(rec models.ClassifiedRecord) string {
	lines := []struct{ label, value string }{
		{"Codigo", rec.CNPJ},
		{"Fantasia", rec.Fantasia},
		{"Supervisor", rec.Supervisor},
		{"Vendedor", rec.Vendedor},
		{"Rota", rec.Rota},
		{"Forma de pagamento", rec.FormaPagamento},
		{"Faixa", rec.Faixa},
		{"Sem comprar?", rec.SemComprar},
		{"Ticket Medio", money(rec.TicketMedio)},
		{"Lucro medio", money(models.Float(rec.LucroMedio))},
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.label)
		b.WriteString(": ")
		b.WriteString(html.EscapeString(l.value))
		b.WriteString("<br>")
	}
	return b.String()
}

func money(n models.NullFloat) string {
	if !n.Valid {
		return "-"
	}
	return "R$ " + n.String()
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// WriteFile renders res into path. The page is written to a temporary file in
// the same directory and renamed, so a failed run never leaves a partial artifact.
func (r *Renderer) WriteFile(path string, res *models.Result) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tktmap-*.html")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = r.Render(tmp, res); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
