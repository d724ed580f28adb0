package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"rest-recon/internal/config"
)

var summaryFormats = []string{"markdown", "excel", "html", "word", "openapi"}

func newInitCmd() *cobra.Command {
	var (
		path  string
		force bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config.yaml interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			if !yes {
				if err := askConfig(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s and %s, or put them in a .env file next to the config, then run: rest-recon generate\n",
				cfg.Target.UsernameEnv, cfg.Target.PasswordEnv)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "config.yaml", "Where to write the configuration")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the defaults without prompting")
	return cmd
}

// askConfig fills cfg from interactive prompts, offering its current values as defaults.
func askConfig(cfg *config.Config) error {
	answers := struct {
		RootDir     string
		BaseURL     string
		Timeout     string
		UsernameEnv string
		PasswordEnv string
		OutputDir   string
		Formats     []string
	}{}

	questions := []*survey.Question{
		{
			Name:     "RootDir",
			Prompt:   &survey.Input{Message: "Controller source directory:", Default: cfg.Source.RootDir},
			Validate: survey.Required,
		},
		{
			Name:     "BaseURL",
			Prompt:   &survey.Input{Message: "REST API base URL:", Default: cfg.Target.BaseURL},
			Validate: validURL,
		},
		{
			Name:     "Timeout",
			Prompt:   &survey.Input{Message: "Request timeout:", Default: cfg.Target.Timeout.String()},
			Validate: validDuration,
		},
		{
			Name:     "UsernameEnv",
			Prompt:   &survey.Input{Message: "Environment variable holding the username:", Default: cfg.Target.UsernameEnv},
			Validate: survey.Required,
		},
		{
			Name:     "PasswordEnv",
			Prompt:   &survey.Input{Message: "Environment variable holding the application password:", Default: cfg.Target.PasswordEnv},
			Validate: survey.Required,
		},
		{
			Name:     "OutputDir",
			Prompt:   &survey.Input{Message: "Output directory:", Default: cfg.Output.Dir},
			Validate: survey.Required,
		},
		{
			Name: "Formats",
			Prompt: &survey.MultiSelect{
				Message: "Summary formats:",
				Options: summaryFormats,
				Default: cfg.Output.Formats,
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	timeout, err := time.ParseDuration(answers.Timeout)
	if err != nil {
		return err
	}
	cfg.Source.RootDir = answers.RootDir
	cfg.Target.BaseURL = answers.BaseURL
	cfg.Target.Timeout = timeout
	cfg.Target.UsernameEnv = answers.UsernameEnv
	cfg.Target.PasswordEnv = answers.PasswordEnv
	cfg.Output.Dir = answers.OutputDir
	cfg.Output.Formats = answers.Formats
	return nil
}

func validURL(ans interface{}) error {
	s, _ := ans.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter an absolute URL such as http://localhost:8000/wp-json")
	}
	return nil
}

func validDuration(ans interface{}) error {
	s, _ := ans.(string)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return errors.New("enter a positive duration such as 10s")
	}
	return nil
}
