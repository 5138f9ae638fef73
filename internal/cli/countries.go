package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/service"
)

func (a *app) newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "countries",
		Aliases: []string{"c"},
		Short:   "Browse country data",
		Long: `Browse country data from restcountries.com.

Examples:
  worldatlas countries list
  worldatlas countries list --region Asia --search stan
  worldatlas countries region Oceania
  worldatlas countries search "south"
  worldatlas countries show PER
  worldatlas countries capital Lima`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List countries, optionally filtered by region and name",
		Args:  cobra.NoArgs,
		RunE:  a.runCountriesList,
	}
	listCmd.Flags().String("region", countries.AllRegions, "region (Africa, Americas, Asia, Europe, Oceania, or All)")
	listCmd.Flags().String("search", "", "case-insensitive name filter")

	cmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "region <region>",
			Short: "List the countries of a region",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runCountriesLookup((*countries.Client).ByRegion),
		},
		&cobra.Command{
			Use:   "search <name>",
			Short: "Search countries by name",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runCountriesLookup((*countries.Client).SearchByName),
		},
		&cobra.Command{
			Use:   "capital <capital>",
			Short: "Find countries by capital city",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runCountriesLookup((*countries.Client).ByCapital),
		},
		&cobra.Command{
			Use:   "show <code>",
			Short: "Show a country and its neighbours",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runCountriesShow,
		},
	)
	return cmd
}

func (a *app) countryService() *service.CountryService {
	return service.NewCountryService(a.countries, nil)
}

func (a *app) runCountriesList(cmd *cobra.Command, _ []string) error {
	region, _ := cmd.Flags().GetString("region")
	search, _ := cmd.Flags().GetString("search")

	list, err := a.countryService().List(cmd.Context(), region, search)
	if err != nil {
		return err
	}
	return a.printCountries(list)
}

type lookupFunc func(*countries.Client, context.Context, string) ([]countries.Country, error)

func (a *app) runCountriesLookup(lookup lookupFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		list, err := lookup(a.countries, cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return a.printCountries(list)
	}
}

func (a *app) runCountriesShow(cmd *cobra.Command, args []string) error {
	detail, err := a.countryService().Detail(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	c := detail.Country
	rows := [][2]string{
		{"Name", c.Name.Common},
		{"Native name", c.NativeCommonName()},
		{"Code", c.CCA3},
		{"Population", formatPopulation(c.Population)},
		{"Region", orNA(c.Region)},
		{"Sub region", orNA(c.Subregion)},
		{"Capital", c.PrimaryCapital()},
		{"Top level domain", orNA(strings.Join(c.TLD, ", "))},
		{"Currencies", orNA(strings.Join(currencyNames(c.Currencies), ", "))},
		{"Languages", orNA(strings.Join(sortedValues(c.Languages), ", "))},
	}

	var borders []string
	for _, b := range detail.BorderCountries {
		borders = append(borders, b.Name.Common)
	}
	rows = append(rows, [2]string{"Border countries", orNA(strings.Join(borders, ", "))})

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func (a *app) printCountries(list []countries.Country) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No countries found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tREGION\tCAPITAL\tPOPULATION")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.CCA3, c.Name.Common, orNA(c.Region), c.PrimaryCapital(), formatPopulation(c.Population))
	}
	return tw.Flush()
}

// formatPopulation renders n with comma thousands separators.
func formatPopulation(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func currencyNames(m map[string]countries.Currency) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, m[code].Name)
	}
	return names
}

func sortedValues(m map[string]string) []string {
	values := make([]string, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
