// Package countries is a client for the restcountries.com v3.1 API.
package countries

// Country is a restcountries record. Summary queries fill only the fields
// named in SummaryFields.
type Country struct {
	Name       Name                `json:"name"`
	CCA3       string              `json:"cca3"`
	Capital    []string            `json:"capital,omitempty"`
	Population int64               `json:"population"`
	Region     string              `json:"region,omitempty"`
	Subregion  string              `json:"subregion,omitempty"`
	Flags      Flags               `json:"flags"`
	TLD        []string            `json:"tld,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
}

type Name struct {
	Common     string                `json:"common"`
	Official   string                `json:"official"`
	NativeName map[string]NativeName `json:"nativeName,omitempty"`
}

type NativeName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

const notAvailable = "N/A"

// PrimaryCapital returns the first listed capital, or "N/A".
func (c Country) PrimaryCapital() string {
	if len(c.Capital) == 0 || c.Capital[0] == "" {
		return notAvailable
	}
	return c.Capital[0]
}

// NativeCommonName returns a native common name, falling back to the
// English common name. With several native names the lowest language
// code wins so the result is stable.
func (c Country) NativeCommonName() string {
	best := ""
	for lang, n := range c.Name.NativeName {
		if n.Common != "" && (best == "" || lang < best) {
			best = lang
		}
	}
	if best == "" {
		return c.Name.Common
	}
	return c.Name.NativeName[best].Common
}
