package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"minimod"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Request and exchange a one-time email security code for a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		var sent bool
		var wg sync.WaitGroup
		wg.Add(1)
		spinner, _ := pterm.DefaultSpinner.Start("Requesting security code...")
		c.EmailRequest(cmd.Context(), args[0], func(ok bool) {
			sent = ok
			wg.Done()
		})
		wg.Wait()

		if !sent {
			spinner.Fail("email request failed")
			return nil
		}
		spinner.Success("security code sent to ", args[0])

		fmt.Print("enter the security code: ")
		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		code = trimNewline(code)

		var authed bool
		wg.Add(1)
		c.EmailExchange(cmd.Context(), code, func(token string, ok bool) {
			authed = ok
			wg.Done()
		})
		wg.Wait()

		if !authed {
			pterm.Error.Println("code exchange failed")
			return nil
		}
		pterm.Success.Println("logged in; token persisted under", cfg.RootPath)
		return nil
	},
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if !c.IsAuthenticated() {
			pterm.Warning.Println("not authenticated; run `minimod login <email>` first")
			return nil
		}

		var wg sync.WaitGroup
		wg.Add(1)
		c.Me(cmd.Context(), func(u *minimod.User, ok bool) {
			if ok {
				pterm.Info.Println("username:", u.Username, "id:", u.ID)
			} else {
				pterm.Error.Println("request failed")
			}
			wg.Done()
		})
		wg.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(meCmd)
}
