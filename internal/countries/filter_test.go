package countries

import "testing"

func sampleCountries() []Country {
	return []Country{
		{Name: Name{Common: "Germany"}, Region: "Europe"},
		{Name: Name{Common: "Niger"}, Region: "Africa"},
		{Name: Name{Common: "Nigeria"}, Region: "Africa"},
		{Name: Name{Common: "Japan"}, Region: "Asia"},
	}
}

func names(list []Country) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name.Common
	}
	return out
}

func TestFilterByName(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Germany", "Niger", "Nigeria", "Japan"}},
		{"niger", []string{"Niger", "Nigeria"}},
		{"GER", []string{"Germany", "Niger", "Nigeria"}},
		{"  pan ", []string{"Japan"}},
		{"atlantis", []string{}},
	}

	for _, tt := range tests {
		got := names(FilterByName(sampleCountries(), tt.term))
		if len(got) != len(tt.want) {
			t.Errorf("FilterByName(%q) = %v, want %v", tt.term, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FilterByName(%q) = %v, want %v", tt.term, got, tt.want)
				break
			}
		}
	}
}

func TestFilterByRegion(t *testing.T) {
	tests := []struct {
		region string
		want   int
	}{
		{"", 4},
		{"All", 4},
		{"Africa", 2},
		{"africa", 0},
		{"Oceania", 0},
	}

	for _, tt := range tests {
		if got := len(FilterByRegion(sampleCountries(), tt.region)); got != tt.want {
			t.Errorf("FilterByRegion(%q) returned %d countries, want %d", tt.region, got, tt.want)
		}
	}
}

func TestCountryHelpers(t *testing.T) {
	c := Country{Name: Name{Common: "Peru"}}
	if got := c.PrimaryCapital(); got != "N/A" {
		t.Errorf("PrimaryCapital() = %q, want N/A", got)
	}
	if got := c.NativeCommonName(); got != "Peru" {
		t.Errorf("NativeCommonName() = %q, want Peru", got)
	}

	c.Capital = []string{"Lima"}
	c.Name.NativeName = map[string]NativeName{
		"que": {Common: "Piruw"},
		"aym": {Common: "Piruw (aym)"},
		"spa": {Common: "Perú"},
	}
	if got := c.PrimaryCapital(); got != "Lima" {
		t.Errorf("PrimaryCapital() = %q, want Lima", got)
	}
	if got := c.NativeCommonName(); got != "Piruw (aym)" {
		t.Errorf("NativeCommonName() = %q, want %q", got, "Piruw (aym)")
	}
}
