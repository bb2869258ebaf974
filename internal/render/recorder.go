package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Op is one recorded canvas call.
type Op struct {
	Name string
	Args []float64
	Text string
}

func (o Op) String() string {
	var b strings.Builder
	b.WriteString(o.Name)
	for _, a := range o.Args {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(a, 'f', -1, 64))
	}
	if o.Text != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(o.Text))
	}
	return b.String()
}

// Recorder is a Canvas that only records the calls made on it.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder returns a recorder reporting a w x h size.
func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) add(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func colorOp(name string, c color.Color) Op {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Op{Name: name, Text: fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Resize(w, h int) {
	r.W, r.H = w, h
	r.add("resize", float64(w), float64(h))
}

func (r *Recorder) Clear()                   { r.add("clear") }
func (r *Recorder) Save()                    { r.add("save") }
func (r *Recorder) Restore()                 { r.add("restore") }
func (r *Recorder) SetGlobalAlpha(a float64) { r.add("alpha", a) }
func (r *Recorder) SetLineWidth(w float64)   { r.add("lineWidth", w) }

func (r *Recorder) SetCompositeOp(op CompositeOp) {
	r.Ops = append(r.Ops, Op{Name: "composite", Text: op.String()})
}

func (r *Recorder) SetStrokeColor(c color.Color) { r.Ops = append(r.Ops, colorOp("strokeStyle", c)) }
func (r *Recorder) SetFillColor(c color.Color)   { r.Ops = append(r.Ops, colorOp("fillStyle", c)) }

func (r *Recorder) BeginPath()          { r.add("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.add("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("lineTo", x, y) }
func (r *Recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.add("cubicTo", c1x, c1y, c2x, c2y, x, y)
}
func (r *Recorder) ClosePath()                { r.add("closePath") }
func (r *Recorder) Arc(x, y, radius float64)  { r.add("arc", x, y, radius) }
func (r *Recorder) Rect(x, y, w, h float64)   { r.add("rect", x, y, w, h) }
func (r *Recorder) Fill()                     { r.add("fill") }
func (r *Recorder) Stroke()                   { r.add("stroke") }
func (r *Recorder) PushLayer(opacity float64) { r.add("pushLayer", opacity) }
func (r *Recorder) PopLayer()                 { r.add("popLayer") }
func (r *Recorder) FillText(s string, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "fillText", Args: []float64{x, y}, Text: s})
}

// Count returns how many ops named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, o := range r.Ops {
		if o.Name == name {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// WriteTo writes one op per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, o := range r.Ops {
		n, err := fmt.Fprintln(w, o.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
