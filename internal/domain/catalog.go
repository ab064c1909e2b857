package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region is a catalog entry: the human-readable name and the short code used
// in the report URL path.
type Region struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// regionCodes maps region names as shown to users to their SMN path codes.
var regionCodes = map[string]string{
	"aguascalientes":      "ags",
	"baja california":     "bc",
	"baja california sur": "bcs",
	"campeche":            "camp",
	"coahuila":            "coah",
	"colima":              "col",
	"chiapas":             "chis",
	"chihuahua":           "chih",
	"cdmx":                "df",
	"durango":             "dgo",
	"guanajuato":          "gto",
	"guerrero":            "gro",
	"hidalgo":             "hgo",
	"jalisco":             "jal",
	"estado de méxico":    "mex",
	"michoacan":           "mich",
	"morelos":             "mor",
	"nayarit":             "nay",
	"nuevo león":          "nl",
	"oaxaca":              "oax",
	"puebla":              "pue",
	"querétaro":           "qro",
	"quintana roo":        "qroo",
	"san luis potosí":     "slp",
	"sinaloa":             "sin",
	"sonora":              "son",
	"tabasco":             "tab",
	"tamaulipas":          "tamps",
	"tlaxcala":            "tlax",
	"veracruz":            "ver",
	"yucatán":             "yuc",
	"zacatecas":           "zac",
}

// regionIndex resolves folded names and codes to catalog entries.
var regionIndex = buildRegionIndex()

func buildRegionIndex() map[string]Region {
	idx := make(map[string]Region, len(regionCodes)*2)
	for name, code := range regionCodes {
		r := Region{Name: name, Code: code}
		idx[foldName(name)] = r
		idx[code] = r
	}
	return idx
}

// Regions returns the catalog sorted by name.
func Regions() []Region {
	out := make([]Region, 0, len(regionCodes))
	for name, code := range regionCodes {
		out = append(out, Region{Name: name, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupRegion resolves a region by name or code. Matching ignores case,
// accents and repeated spaces, so "Yucatan", "YUCATÁN" and "yuc" all resolve.
func LookupRegion(name string) (Region, error) {
	if r, ok := regionIndex[foldName(name)]; ok {
		return r, nil
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
}

// foldName lower-cases, strips diacritics and collapses whitespace.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NormalizeStationCode trims the code and zero-pads it to five digits.
func NormalizeStationCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 5 {
		return "", fmt.Errorf("%w: %q", ErrInvalidStationCode, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidStationCode, code)
		}
	}
	return strings.Repeat("0", 5-len(code)) + code, nil
}
