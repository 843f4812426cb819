package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/skillshare-dao/skillshare-dao/internal/config"
	"github.com/skillshare-dao/skillshare-dao/pkg/client"
	"github.com/spf13/cobra"
)

type globals struct {
	server           string
	sessionFile      string
	backendPrincipal string

	// client is the one opened by the running command, if any.
	client *client.Client
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".daoctl-session.json"
	}
	return filepath.Join(dir, "daoctl", "session.json")
}

func rootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           "daoctl",
		Short:         "Command-line client for the skillshare DAO",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	server := os.Getenv("DAO_SERVER")
	if server == "" {
		server = "http://localhost:3000"
	}
	cmd.PersistentFlags().StringVar(&g.server, "server", server, "DAO backend base URL")
	cmd.PersistentFlags().StringVar(&g.sessionFile, "session-file", defaultSessionFile(), "where the login session is kept")
	cmd.PersistentFlags().StringVar(&g.backendPrincipal, "backend-principal", os.Getenv("DAO_BACKEND_PRINCIPAL"), "spender approved when buying products")

	cmd.AddCommand(
		loginCmd(g),
		logoutCmd(g),
		whoamiCmd(g),
		addressCmd(g),
		balanceCmd(g),
		profileCmd(g),
		proposalCmd(g),
		productCmd(g),
	)
	persistSession(cmd, g)
	return cmd
}

// persistSession wraps every command so a session the client refreshed or
// dropped while running is written back, whether or not the command failed.
func persistSession(cmd *cobra.Command, g *globals) {
	for _, sub := range cmd.Commands() {
		persistSession(sub, g)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cc *cobra.Command, args []string) error {
		err := run(cc, args)
		if g.client == nil {
			return err
		}
		if serr := g.save(g.client); serr != nil && err == nil {
			err = serr
		}
		return err
	}
}

// open builds a client from flags and the ledger settings in the environment
// and restores any saved session.
func (g *globals) open() (*client.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	cc := client.ConfigFromLedger(g.server, cfg.Ledger)
	cc.BackendPrincipal = g.backendPrincipal
	c, err := client.New(cc)
	if err != nil {
		return nil, err
	}
	s, err := loadSession(g.sessionFile)
	if err != nil {
		return nil, err
	}
	c.Restore(s)
	g.client = c
	return c, nil
}

// save persists the client's session, removing the file once logged out.
func (g *globals) save(c *client.Client) error {
	return saveSession(g.sessionFile, c.Session())
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loginCmd(g *globals) *cobra.Command {
	var code, redirectURI, username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an authorization code or username/password",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var s *client.Session
			switch {
			case code != "":
				s, err = c.Login(ctx, code, redirectURI)
			case username != "":
				s, err = c.LoginPassword(ctx, username, password)
			default:
				return fmt.Errorf("either --code or --username is required")
			}
			if err != nil {
				return err
			}
			if err := g.save(c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", s.Principal)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost/callback", "redirect URI used to obtain the code")
	cmd.Flags().StringVar(&username, "username", "", "username (password grant)")
	cmd.Flags().StringVar(&password, "password", "", "password (password grant)")
	return cmd
}

func logoutCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			logoutErr := c.Logout(cmd.Context())
			if err := g.save(c); err != nil {
				return err
			}
			return logoutErr
		},
	}
}

func whoamiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			if !c.IsAuthenticated() {
				_ = g.save(c)
				return fmt.Errorf("not logged in")
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Principal())
			return nil
		},
	}
}

func addressCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "address <principal>",
		Short: "Print the ledger account id of a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			addr, err := c.AddressFromPrincipal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

func balanceCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show ICP and token balances of the logged-in principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			icp, err := c.ICPBalance(ctx)
			if err != nil {
				return err
			}
			sym, err := c.TokenSymbol(ctx)
			if err != nil {
				return err
			}
			tokens, err := c.TokenBalance(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ICP: %s\n%s: %s\n", icp, symbolOr(sym, "tokens"), tokens)
			return nil
		},
	}
}

func symbolOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func profileCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Manage profiles"}

	var name, role string
	var skills []string
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Create or replace a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			msg, err := c.UpsertProfile(cmd.Context(), client.ProfileInput{ID: args[0], Name: name, Skills: skills, Role: client.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&role, "role", "learner", "learner or professional")
	set.Flags().StringSliceVar(&skills, "skills", nil, "comma-separated skills")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			p, err := c.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.AddCommand(set, get)
	return cmd
}

func proposalCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "proposal", Short: "Create, vote on and close proposals"}

	var description string
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Open a new proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			res, err := c.CreateProposal(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	create.Flags().StringVar(&description, "description", "", "proposal description")

	var userID string
	vote := &cobra.Command{
		Use:   "vote <id> <yes|no>",
		Short: "Vote on an open proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVote(args[1])
			if err != nil {
				return err
			}
			c, err := g.open()
			if err != nil {
				return err
			}
			voter := userID
			if voter == "" {
				voter = c.Principal()
			}
			if voter == "" {
				return fmt.Errorf("--user is required when not logged in")
			}
			msg, err := c.Vote(cmd.Context(), args[0], voter, v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	vote.Flags().StringVar(&userID, "user", "", "voter id (defaults to the logged-in principal)")

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			msg, err := c.CloseProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a proposal and its votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			p, err := c.GetProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.AddCommand(create, vote, closeCmd, get)
	return cmd
}

func parseVote(s string) (bool, error) {
	switch s {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("vote must be yes or no, got %q", s)
	}
	return v, nil
}

func productCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Browse, list and buy marketplace products"}

	var in client.ProductInput
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "List a product for sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			in.Title = args[0]
			p, err := c.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	create.Flags().StringVar(&in.Description, "description", "", "product description")
	create.Flags().StringVar(&in.Location, "location", "", "where the service is offered")
	create.Flags().StringVar(&in.AttachmentURL, "attachment-url", "", "image or document URL")
	create.Flags().Uint64Var(&in.Price, "price", 0, "price in token base units")

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			products, err := c.GetProducts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		},
	}

	buy := &cobra.Command{
		Use:   "buy <product-id>",
		Short: "Approve the price and place an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.open()
			if err != nil {
				return err
			}
			p, err := c.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			o, err := c.BuyProduct(cmd.Context(), *p)
			if err != nil {
				return err
			}
			return printJSON(cmd, o)
		},
	}
	cmd.AddCommand(create, list, buy)
	return cmd
}
