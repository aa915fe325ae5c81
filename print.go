package tickstream

import (
	"fmt"
	"io"
	"strings"
)

// Fprint renders a textual snapshot of the current window, newest element
// first. Like any ranged read it places the marker at -1.
func Fprint[S any](w io.Writer, win Window[S]) error {
	vals, err := win.Vector(-1, 0)
	if err != nil {
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "stream(%d/%d)[", len(vals), win.BoundSize())
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')

	_, err = io.WriteString(w, b.String())

	return err
}

// Sprint is Fprint into a string.
func Sprint[S any](win Window[S]) (string, error) {
	var b strings.Builder
	if err := Fprint(&b, win); err != nil {
		return "", err
	}
	return b.String(), nil
}
