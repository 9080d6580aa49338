package main

import (
	"bufio"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"agriguard/internal/analysis"
	"agriguard/internal/client"
	"agriguard/internal/config"
	"agriguard/internal/history"
	"agriguard/internal/upload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agrictl",
	Short: "Plant disease detection from the terminal",
	Long:  "agrictl uploads leaf photos for analysis and browses past scans.",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newClient()
		if err != nil {
			return err
		}

		in := bufio.NewReader(os.Stdin)
		profile := client.Profile{
			Email:        prompt(in, "Email"),
			Username:     prompt(in, "Username"),
			FullName:     prompt(in, "Full name (optional)"),
			FarmLocation: prompt(in, "Farm location (optional)"),
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}
		profile.Password = password

		account, err := api.Register(cmd.Context(), profile)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (id %d). Run 'agrictl login' to sign in.\n", account.Username, account.ID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newClient()
		if err != nil {
			return err
		}

		in := bufio.NewReader(os.Stdin)
		username := prompt(in, "Username")
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		if _, err := api.Login(cmd.Context(), username, password); err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newClient()
		if err != nil {
			return err
		}
		api.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a leaf photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newClient()
		if err != nil {
			return err
		}

		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		controller := upload.NewController(api, nil)
		if err := controller.Select(filepath.Base(path), mimeType, f); err != nil {
			return err
		}

		result, err := controller.Analyze(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(analysis.Report(result))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scans, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newClient()
		if err != nil {
			return err
		}
		if !api.IsAuthenticated() {
			return client.ErrUnauthenticated
		}

		loader := history.NewLoader(api, nil)
		loader.Refresh(cmd.Context(), 1)
		scans := loader.History()
		if len(scans) == 0 {
			if loader.AuthFailures() > 0 {
				return client.ErrUnauthenticated
			}
			fmt.Println("No scans yet.")
			return nil
		}

		for i, scan := range scans {
			if i > 0 {
				fmt.Println(strings.Repeat("-", 40))
			}
			fmt.Print(analysis.Report(scan))
		}
		return nil
	},
}

func newClient() (*client.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	tokenFile := cfg.Client.TokenFile
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve home dir failed: %w", err)
		}
		tokenFile = filepath.Join(home, ".agriguard", "token")
	}

	session := client.NewFileSession(tokenFile)
	return client.New(cfg.Client.BaseURL, session), cfg, nil
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
}
