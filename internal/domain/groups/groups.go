// Package groups holds display metadata for political groups and countries:
// the left-to-right ideological ordering, chart colors and human labels.
package groups

// FallbackColor is used for any code missing from the color tables.
const FallbackColor = "#999999"

// ideologyOrder lists group codes left to right. Codes not listed sort
// after all listed ones, in encounter order.
var ideologyOrder = []string{
	"GUE_NGL",
	"GREEN_EFA",
	"SD",
	"RENEW",
	"EPP",
	"ECR",
	"PFE",
	"ID",
	"ESN",
	"NI",
}

var ideologyIndex = func() map[string]int {
	m := make(map[string]int, len(ideologyOrder))
	for i, code := range ideologyOrder {
		m[code] = i
	}
	return m
}()

// groupColors are the official EU Parliament group colors.
var groupColors = map[string]string{
	"EPP":       "#3399FF",
	"SD":        "#FF0000",
	"RENEW":     "#FFD700",
	"GREEN_EFA": "#00994D",
	"ECR":       "#0054A5",
	"ID":        "#2B3856",
	"GUE_NGL":   "#990000",
	"PFE":       "#000080",
	"ESN":       "#8B0000",
	"NI":        "#999999",
}

var groupNames = map[string]string{
	"EPP":       "European People's Party",
	"SD":        "Socialists & Democrats",
	"RENEW":     "Renew Europe",
	"GREEN_EFA": "Greens/EFA",
	"ECR":       "European Conservatives and Reformists",
	"ID":        "Identity and Democracy",
	"GUE_NGL":   "The Left (GUE/NGL)",
	"PFE":       "Patriots for Europe",
	"ESN":       "Europe of Sovereign Nations",
	"NI":        "Non-attached",
}

// countryNames maps member country codes to display names.
var countryNames = map[string]string{
	"AUT": "Austria",
	"BEL": "Belgium",
	"BGR": "Bulgaria",
	"HRV": "Croatia",
	"CYP": "Cyprus",
	"CZE": "Czechia",
	"DNK": "Denmark",
	"EST": "Estonia",
	"FIN": "Finland",
	"FRA": "France",
	"DEU": "Germany",
	"GRC": "Greece",
	"HUN": "Hungary",
	"IRL": "Ireland",
	"ITA": "Italy",
	"LVA": "Latvia",
	"LTU": "Lithuania",
	"LUX": "Luxembourg",
	"MLT": "Malta",
	"NLD": "Netherlands",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"SVK": "Slovakia",
	"SVN": "Slovenia",
	"ESP": "Spain",
	"SWE": "Sweden",
}

// countryPalette is a categorical palette for country series; countries have
// no official colors, so color follows chart position.
var countryPalette = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
	"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
}

// Order returns the ideological position of a group code and whether the
// code is a known group.
func Order(code string) (int, bool) {
	i, ok := ideologyIndex[code]
	return i, ok
}

// Color returns the chart color for a group code.
func Color(code string) string {
	if c, ok := groupColors[code]; ok {
		return c
	}
	return FallbackColor
}

// Name returns the display label for a group code, falling back to the
// code itself.
func Name(code string) string {
	if n, ok := groupNames[code]; ok {
		return n
	}
	return code
}

// CountryName returns the display label for a country code, falling back to
// the code itself.
func CountryName(code string) string {
	if n, ok := countryNames[code]; ok {
		return n
	}
	return code
}

// CountryColor returns the palette color for the country at the given chart
// position.
func CountryColor(position int) string {
	if position < 0 {
		return FallbackColor
	}
	return countryPalette[position%len(countryPalette)]
}
