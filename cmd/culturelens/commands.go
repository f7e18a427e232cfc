package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/culturelens/internal/api"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/config"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
	"github.com/kalambet/culturelens/internal/report"
)

// withClient runs fn with a configured API client.
func withClient(fn func(ctx context.Context, client *apiClient, w io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return fn(cmd.Context(), client, cmd.OutOrStdout())
	}
}

// --- countries ---

type countryRow struct {
	culture.CountryProfile
	Custom bool `json:"custom"`
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List and manage country profiles",
}

var countriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known country",
	RunE: withClient(func(ctx context.Context, client *apiClient, w io.Writer) error {
		return listCountries(ctx, client, w, outputMode())
	}),
}

func listCountries(ctx context.Context, client *apiClient, w io.Writer, mode report.Mode) error {
	var rows []countryRow
	if err := client.get(ctx, "/v1/countries", &rows); err != nil {
		return err
	}

	profiles := make([]culture.CountryProfile, len(rows))
	custom := make(map[string]bool)
	for i, r := range rows {
		profiles[i] = r.CountryProfile
		if r.Custom {
			custom[r.Code] = true
		}
	}
	fmt.Fprintln(w, report.Countries(profiles, custom, mode))
	return nil
}

var countriesShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show one country's scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return showCountry(cmd.Context(), client, cmd.OutOrStdout(), args[0], outputMode())
	},
}

func showCountry(ctx context.Context, client *apiClient, w io.Writer, code string, mode report.Mode) error {
	var row countryRow
	if err := client.get(ctx, "/v1/countries/"+url.PathEscape(code), &row); err != nil {
		return err
	}
	fmt.Fprintln(w, report.Scores([]culture.CountryProfile{row.CountryProfile}, mode))
	if row.LocalName != "" {
		fmt.Fprintf(w, "Local name: %s\n", row.LocalName)
	}
	if row.Custom {
		fmt.Fprintln(w, "Source: custom")
	}
	return nil
}

var countriesSetCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Create or override a country profile",
	Long: `Create or override a country profile. A custom profile replaces the
built-in profile with the same code until it is deleted.

Example:
  culturelens countries set XX --name Testland --pdi 50 --idv 40 --uai 60 --type machine`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profileFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return setCountry(cmd.Context(), client, p)
	},
}

func profileFromFlags(cmd *cobra.Command, code string) (culture.CountryProfile, error) {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	localName, _ := flags.GetString("local-name")
	typ, _ := flags.GetString("type")

	p := culture.CountryProfile{
		Code:        code,
		Name:        name,
		LocalName:   localName,
		CultureType: culture.CultureType(strings.ToLower(typ)),
	}
	for _, f := range []struct {
		flag string
		dst  **int
	}{
		{"pdi", &p.Dimensions.PowerDistance},
		{"idv", &p.Dimensions.Individualism},
		{"uai", &p.Dimensions.UncertaintyAvoidance},
		{"mas", &p.Dimensions.Masculinity},
	} {
		if !flags.Changed(f.flag) {
			continue
		}
		v, err := flags.GetInt(f.flag)
		if err != nil {
			return culture.CountryProfile{}, err
		}
		*f.dst = culture.Score(v)
	}
	return p, nil
}

func setCountry(ctx context.Context, client *apiClient, p culture.CountryProfile) error {
	var stored countryRow
	if err := client.put(ctx, "/v1/countries/"+url.PathEscape(p.Code), p, &stored); err != nil {
		return err
	}
	printSuccess("Saved %s (%s)", stored.Code, stored.DisplayName())
	return nil
}

var countriesDeleteCmd = &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete a custom country profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		err = client.delete(cmd.Context(), "/v1/countries/"+url.PathEscape(args[0]))
		if isStatus(err, http.StatusConflict) {
			printWarning("%s is a built-in profile; only custom profiles can be deleted", strings.ToUpper(args[0]))
		}
		if err != nil {
			return err
		}
		printSuccess("Deleted custom profile %s", strings.ToUpper(args[0]))
		return nil
	},
}

func init() {
	addProfileFlags(countriesSetCmd)
	countriesCmd.AddCommand(countriesListCmd, countriesShowCmd, countriesSetCmd, countriesDeleteCmd)
}

func addProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "English country name")
	f.String("local-name", "", "country name in its own language")
	f.Int("pdi", 0, "Power Distance score (0-100)")
	f.Int("idv", 0, "Individualism score (0-100)")
	f.Int("uai", 0, "Uncertainty Avoidance score (0-100)")
	f.Int("mas", 0, "Masculinity score (0-100, optional)")
	f.String("type", "", "culture type: contest, network, family, pyramid, solar_system, machine")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("type")
}

// --- contexts ---

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List the business situations advice can be given for",
	RunE: withClient(func(ctx context.Context, client *apiClient, w io.Writer) error {
		var contexts []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		}
		if err := client.get(ctx, "/v1/contexts", &contexts); err != nil {
			return err
		}
		for _, c := range contexts {
			fmt.Fprintf(w, "%-24s %s\n", paint(styleCyan, c.ID), c.Label)
		}
		return nil
	}),
}

// --- compare ---

var compareCmd = &cobra.Command{
	Use:   "compare <code> [code] [code]",
	Short: "Compare up to three countries",
	Long: `Compare the dimension scores of up to three countries. With exactly two
countries and --context, bilateral advice is included.`,
	Args: cobra.RangeArgs(1, composer.MaxSelection),
	RunE: func(cmd *cobra.Command, args []string) error {
		situation, _ := cmd.Flags().GetString("context")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runCompare(cmd.Context(), client, cmd.OutOrStdout(), args, situation, outputMode())
	},
}

func runCompare(ctx context.Context, client *apiClient, w io.Writer, codes []string, situation string, mode report.Mode) error {
	var cmp composer.Comparison
	if err := client.post(ctx, "/v1/compare", api.CompareRequest{Countries: codes, Context: situation}, &cmp); err != nil {
		return err
	}

	fmt.Fprint(w, report.Comparison(cmp, mode))
	if mode == report.ASCII {
		for _, pair := range cmp.Pairs {
			fmt.Fprintln(w, gapSummary(pair))
		}
	}
	return nil
}

// gapSummary counts the gaps of a pair by significance, e.g. "US/KR: high 2, medium 1, low 1".
func gapSummary(pair composer.PairGaps) string {
	counts := make(map[gap.Significance]int)
	for _, g := range pair.Gaps {
		counts[g.Significance]++
	}
	parts := make([]string, 0, 3)
	for _, s := range []gap.Significance{gap.High, gap.Medium, gap.Low} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", significanceColor(s), counts[s]))
		}
	}
	return fmt.Sprintf("%s/%s: %s", pair.CodeA, pair.CodeB, strings.Join(parts, ", "))
}

func init() {
	compareCmd.Flags().String("context", "", "business situation for two-country advice (see 'culturelens contexts')")
}

// --- advice ---

var adviceCmd = &cobra.Command{
	Use:   "advice <code> <code>",
	Short: "Bilateral advice for two countries in one business situation",
	Long: `Bilateral advice for two countries in one business situation. Without
--context, the default_context preference is used.

Example:
  culturelens advice US KR --context negotiation`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		situation, _ := cmd.Flags().GetString("context")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runAdvice(cmd.Context(), client, cmd.OutOrStdout(), args[0], args[1], situation, outputMode())
	},
}

func runAdvice(ctx context.Context, client *apiClient, w io.Writer, a, b, situation string, mode report.Mode) error {
	var res api.AdviceResponse
	if err := client.post(ctx, "/v1/advice", api.AdviceRequest{CountryA: a, CountryB: b, Context: situation}, &res); err != nil {
		return err
	}
	fmt.Fprint(w, report.Advice(res.Result, mode))
	if res.ID != "" && mode == report.ASCII {
		fmt.Fprintf(w, "\n%s\n", paint(styleCyan, "saved as "+res.ID))
	}
	return nil
}

func init() {
	adviceCmd.Flags().String("context", "", "business situation (see 'culturelens contexts')")
}

// --- history ---

type historyEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CodeA     string    `json:"code_a"`
	CodeB     string    `json:"code_b"`
	Context   string    `json:"context"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past advice requests",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent advice requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return listHistory(cmd.Context(), client, cmd.OutOrStdout(), limit)
	},
}

func listHistory(ctx context.Context, client *apiClient, w io.Writer, limit int) error {
	var entries []historyEntry
	if err := client.get(ctx, fmt.Sprintf("/v1/comparisons?limit=%d", limit), &entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No comparisons recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s/%s  %s\n",
			paint(styleCyan, shortID(e.ID)),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.CodeA, e.CodeB,
			e.Context,
		)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the advice recorded for one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		var entry struct {
			historyEntry
			Result composer.Result `json:"result"`
		}
		if err := client.get(cmd.Context(), "/v1/comparisons/"+url.PathEscape(args[0]), &entry); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n\n", paint(styleBold, entry.CreatedAt.Local().Format(time.RFC1123)))
		fmt.Fprint(w, report.Advice(entry.Result, outputMode()))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.delete(cmd.Context(), "/v1/comparisons/"+url.PathEscape(args[0])); err != nil {
			return err
		}
		printSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of entries to list")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
}

// --- prefs ---

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change presentation preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored preferences",
	RunE: withClient(func(ctx context.Context, client *apiClient, w io.Writer) error {
		var prefs map[string]string
		if err := client.get(ctx, "/v1/preferences", &prefs); err != nil {
			return err
		}
		if len(prefs) == 0 {
			fmt.Fprintln(w, "No preferences set.")
			return nil
		}
		keys := make([]string, 0, len(prefs))
		for k := range prefs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%-16s %s\n", k, prefs[k])
		}
		return nil
	}),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference (language, disclaimer_seen, default_context)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.patch(cmd.Context(), "/v1/preferences", map[string]string{key: value}, nil); err != nil {
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
}

// --- import ---

type importStatus struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import country profiles from a YAML or JSON file",
	Long: `Import country profiles from a YAML or JSON file. The file holds a list of
profiles in the same shape as 'culturelens countries show' returns. Imported
profiles override built-ins with the same code.

Example:
  culturelens import --file ./profiles.yaml --wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		wait, _ := cmd.Flags().GetBool("wait")
		if file == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := submitImport(cmd.Context(), client, string(data))
		if err != nil {
			return err
		}
		printSuccess("Queued import %s", id)
		if !wait {
			return nil
		}

		st, err := waitForImport(cmd.Context(), client, id, 500*time.Millisecond)
		if err != nil {
			return err
		}
		if st.Status == "failed" {
			return fmt.Errorf("import %s failed: %s", id, st.Error)
		}
		printSuccess("Imported %d profiles", st.Imported)
		return nil
	},
}

func submitImport(ctx context.Context, client *apiClient, document string) (string, error) {
	var result map[string]string
	if err := client.post(ctx, "/v1/imports", api.ImportRequest{Document: document}, &result); err != nil {
		return "", err
	}
	return result["id"], nil
}

// waitForImport polls until the import leaves the pending state or ctx ends.
func waitForImport(ctx context.Context, client *apiClient, id string, interval time.Duration) (importStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var st importStatus
		if err := client.get(ctx, "/v1/imports/"+url.PathEscape(id), &st); err != nil {
			return importStatus{}, err
		}
		if st.Status != "pending" {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return importStatus{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func init() {
	importCmd.Flags().String("file", "", "YAML or JSON file with country profiles")
	importCmd.Flags().Bool("wait", false, "wait for the import to finish")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change local configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(w, "%-22s %-28s %s\n", paint(styleBold, k.Key), k.Value, paint(styleCyan, k.EnvVar))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a configuration key to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			printError("valid keys: %s", strings.Join(config.ValidKeys(), ", "))
			return err
		}
		printSuccess("Set %s = %s (restart the service to apply)", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
