package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bureau-etl/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved job configurations",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPresets(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Printf("%s  %-24s  %s\n", p.ID, p.Name, p.Description)
		}
		return nil
	},
}

var (
	presetName string
	presetDesc string
)

var presetsSaveCmd = &cobra.Command{
	Use:   "save <config.json>",
	Short: "Save a job configuration as a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read config file")
		}
		if !json.Valid(raw) {
			return eris.New("config file is not valid JSON")
		}

		store, err := openPresets(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		saved, err := store.Save(cmd.Context(), preset.Preset{
			Name:        presetName,
			Description: presetDesc,
			Config:      raw,
		})
		if err != nil {
			return err
		}
		fmt.Println(saved.ID)
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPresets(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(cmd.Context(), args[0])
	},
}

func openPresets(cmd *cobra.Command) (*preset.Store, error) {
	store, err := preset.Open(cfg.Job.PresetPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(cmd.Context()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func init() {
	presetsSaveCmd.Flags().StringVar(&presetName, "name", "", "preset name")
	presetsSaveCmd.Flags().StringVar(&presetDesc, "description", "", "preset description")
	_ = presetsSaveCmd.MarkFlagRequired("name")

	presetsCmd.AddCommand(presetsListCmd, presetsSaveCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}
