package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/config"
	"github.com/astrangelo/stellium/internal/profile"
	"github.com/astrangelo/stellium/internal/temporal"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the saved birth-data catalog",
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSave,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profile names",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove,
}

func init() {
	profileSaveCmd.Flags().String("date", "", "birth date (YYYY-MM-DD)")
	profileSaveCmd.Flags().String("time", "", "birth time, local wall clock (HH:MM or HH:MM:SS)")
	profileSaveCmd.Flags().String("timezone", "", "IANA timezone of the birth place")
	profileSaveCmd.Flags().Float64("lat", 0, "latitude in decimal degrees")
	profileSaveCmd.Flags().Float64("lon", 0, "longitude in decimal degrees")
	profileSaveCmd.Flags().String("label", "", "display label (e.g. the place name)")
	_ = profileSaveCmd.MarkFlagRequired("date")
	_ = profileSaveCmd.MarkFlagRequired("time")
	_ = profileSaveCmd.MarkFlagRequired("lat")
	_ = profileSaveCmd.MarkFlagRequired("lon")

	profileCmd.AddCommand(profileSaveCmd, profileListCmd, profileShowCmd, profileRemoveCmd)
	rootCmd.AddCommand(profileCmd)
}

func openStore() (*profile.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return profile.NewStore(cfg.ProfilesPath)
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	p := profile.Profile{Name: args[0]}
	p.Date, _ = cmd.Flags().GetString("date")
	p.Time, _ = cmd.Flags().GetString("time")
	p.Timezone, _ = cmd.Flags().GetString("timezone")
	p.Latitude, _ = cmd.Flags().GetFloat64("lat")
	p.Longitude, _ = cmd.Flags().GetFloat64("lon")
	p.Label, _ = cmd.Flags().GetString("label")

	// Validate the record the same way a chart run would, so a profile that
	// saves cleanly is guaranteed to resolve later. Timezone names are
	// checked against the tz database here, not at chart time.
	if err := validateProfile(p); err != nil {
		return err
	}

	if err := store.Put(p); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved profile %q to %s\n", p.Name, store.Path)
	return nil
}

// validateProfile resolves the profile's fields through the temporal layer
// and rejects anything a later chart run would reject.
func validateProfile(p profile.Profile) error {
	if !profile.ValidName(p.Name) {
		return &temporal.ValidationError{Field: "name", Value: p.Name, Reason: "use letters, digits, hyphen, underscore; \"now\" is reserved"}
	}
	if err := temporal.ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
		return err
	}
	zone := temporal.AssumedUTC()
	if p.Timezone != "" {
		zone = temporal.NamedZone(p.Timezone)
	}
	_, _, err := zone.Convert(p.Date, p.Time)
	return err
}

func runProfileList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	all, err := store.All()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(os.Stderr, "no profiles saved yet — use `stellium profile save`")
		return nil
	}
	for _, p := range all {
		line := fmt.Sprintf("%-16s %s %s", p.Name, p.Date, p.Time)
		if p.Timezone != "" {
			line += " " + p.Timezone
		}
		if p.Label != "" {
			line += "  (" + p.Label + ")"
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	p, err := store.Lookup(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "name:      %s\n", p.Name)
	fmt.Fprintf(os.Stdout, "date:      %s\n", p.Date)
	fmt.Fprintf(os.Stdout, "time:      %s\n", p.Time)
	if p.Timezone != "" {
		fmt.Fprintf(os.Stdout, "timezone:  %s\n", p.Timezone)
	} else {
		fmt.Fprintln(os.Stdout, "timezone:  (none — times treated as UTC)")
	}
	fmt.Fprintf(os.Stdout, "latitude:  %.6f\n", p.Latitude)
	fmt.Fprintf(os.Stdout, "longitude: %.6f\n", p.Longitude)
	if p.Label != "" {
		fmt.Fprintf(os.Stdout, "label:     %s\n", p.Label)
	}
	return nil
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "removed profile %q\n", args[0])
	return nil
}
