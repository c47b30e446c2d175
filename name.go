package fatrecov

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

const (
	// lfnPadding fills the unused code units after the terminating null of a long name.
	lfnPadding = 0xFFFF
	// BitmapExtension is the extension of the only file type this tool recovers.
	BitmapExtension = ".bmp"
)

var utf16Decoder = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)

// appendNameUnits appends the units of one sub-field up to its first null.
func appendNameUnits(dst []uint16, units []uint16) []uint16 {
	for _, u := range units {
		if u == 0 {
			break
		}
		if u == lfnPadding {
			continue
		}
		dst = append(dst, u)
	}
	return dst
}

// fragmentUnits returns the name units stored in one long name fragment.
func fragmentUnits(l *LongFilenameEntry) []uint16 {
	units := make([]uint16, 0, 13)
	units = appendNameUnits(units, l.First[:])
	units = appendNameUnits(units, l.Second[:])
	units = appendNameUnits(units, l.Third[:])
	return units
}

// longName rebuilds a name from its fragments given in physical order, which is
// the highest sequence number first. The text is joined from the lowest sequence up.
func longName(fragments []Slot) string {
	var units []uint16
	for i := len(fragments) - 1; i >= 0; i-- {
		units = append(units, fragmentUnits(&fragments[i].Long)...)
	}
	if len(units) == 0 {
		return ""
	}

	raw := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[2*i:], u)
	}

	name, err := utf16Decoder.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(name)
}

// shortName returns the raw 11 byte 8.3 name decoded as OEM code page 437.
func shortName(name [11]byte) string {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(name[:])
	if err != nil {
		return string(name[:])
	}
	return string(decoded)
}

// TrimAfterExtension cuts everything behind the last occurrence of ext (case-insensitive).
// Names without ext are returned unchanged.
func TrimAfterExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	idx := strings.LastIndex(lowerASCII(name), lowerASCII(ext))
	if idx < 0 {
		return name
	}
	return name[:idx+len(ext)]
}

// lowerASCII keeps byte offsets intact, unlike strings.ToLower.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// sanitizeName turns a recovered name into a single, valid path element.
func sanitizeName(name string) string {
	if !utf8.ValidString(name) {
		name = strings.ToValidUTF8(name, "_")
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r < 0x20:
			return '_'
		}
		return r
	}, name)

	switch name {
	case "", ".", "..":
		return "_"
	}
	return name
}

// escapeControl replaces control characters by Go escapes like \n or \x01,
// so a name always stays on its report line.
func escapeControl(name string) string {
	if strings.IndexFunc(name, unicode.IsControl) < 0 {
		return name
	}

	var b strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
			continue
		}
		quoted := strconv.QuoteRune(r)
		b.WriteString(quoted[1 : len(quoted)-1])
	}
	return b.String()
}

// numberedName inserts ~i in front of the extension of name.
func numberedName(name string, i int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s~%d%s", name[:len(name)-len(ext)], i, ext)
}
