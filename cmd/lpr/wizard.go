package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tadeyemo32/lpr-backend/models"
	"github.com/tadeyemo32/lpr-backend/services"
)

var (
	resolveMode string

	peopleTaxID   string
	peopleCompany string
	peopleRegion  string
	peopleDomain  string

	profilesPeopleFile string
	profilesProduct    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a company by name or tax ID and print the candidates as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List a company's decision-makers by tax ID and print them as JSON",
	Args:  cobra.NoArgs,
	RunE:  runPeople,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Write sales profiles for people read from a JSON file",
	Long:  "Reads a JSON array of people (or an object with a \"people\" field) from --people, \"-\" for stdin, and prints the generated profiles as JSON.",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveMode, "mode", services.ModeName, "Lookup mode: name or taxId")

	peopleCmd.Flags().StringVar(&peopleTaxID, "tax-id", "", "Company tax ID (required)")
	peopleCmd.Flags().StringVar(&peopleCompany, "company", "", "Company name hint")
	peopleCmd.Flags().StringVar(&peopleRegion, "region", "", "Region hint")
	peopleCmd.Flags().StringVar(&peopleDomain, "domain", "", "Official company domain")
	_ = peopleCmd.MarkFlagRequired("tax-id")

	profilesCmd.Flags().StringVar(&profilesPeopleFile, "people", "-", "JSON file with the selected people, - for stdin")
	profilesCmd.Flags().StringVar(&profilesProduct, "product", "", "Context about your product or company")

	rootCmd.AddCommand(resolveCmd, peopleCmd, profilesCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, llm, err := setup()
	if err != nil {
		return err
	}
	resp, err := services.NewResolver(llm, cfg.ResolveOptions()).Resolve(cmd.Context(), models.ResolveCompanyRequest{
		Mode:  resolveMode,
		Query: strings.Join(args, " "),
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func runPeople(cmd *cobra.Command, _ []string) error {
	cfg, llm, err := setup()
	if err != nil {
		return err
	}
	resp, err := services.NewFinder(llm, cfg.FindOptions()).Find(cmd.Context(), models.FindPeopleRequest{
		TaxID:        peopleTaxID,
		CompanyName:  peopleCompany,
		Region:       peopleRegion,
		SourceDomain: peopleDomain,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	people, err := readPeople(cmd.InOrStdin(), profilesPeopleFile)
	if err != nil {
		return err
	}
	cfg, llm, err := setup()
	if err != nil {
		return err
	}
	resp, err := services.NewSynthesizer(llm, cfg.ProfileOptions()).Synthesize(cmd.Context(), models.SynthesizeProfilesRequest{
		People:         people,
		ProductContext: profilesProduct,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

// readPeople accepts either a bare JSON array of people or the Finder's
// {"people": [...]} output.
func readPeople(stdin io.Reader, path string) ([]models.Person, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "read people")
	}

	var env models.FindPeopleResponse
	if err := json.Unmarshal(data, &env); err == nil && len(env.People) > 0 {
		return env.People, nil
	}
	var list []models.Person
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, eris.Wrap(err, "people must be a JSON array or an object with a people field")
	}
	return list, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
