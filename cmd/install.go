package cmd

import (
	"strconv"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"minimod"
)

var installCmd = &cobra.Command{
	Use:   "install [gameID] [modID]",
	Short: "Download and extract a mod's first listed modfile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		modID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}

		c, err := newClientWithUnzip(true)
		if err != nil {
			return err
		}

		var wg sync.WaitGroup
		wg.Add(1)

		spinner, _ := pterm.DefaultSpinner.Start("Resolving and downloading modfile...")
		c.Install(cmd.Context(), gameID, modID, 0, func(ok bool, gameID, modID uint64) {
			if ok {
				spinner.Success("installed game ", gameID, " mod ", modID)
			} else {
				spinner.Fail("install failed for mod ", modID)
			}
			wg.Done()
		})
		wg.Wait()
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [gameID] [modID]",
	Short: "Remove an installed mod's sidecar, archive, and extracted tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		modID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		removed, err := c.Uninstall(gameID, modID)
		if err != nil {
			return err
		}
		if removed {
			pterm.Success.Println("uninstalled")
		} else {
			pterm.Warning.Println("nothing to uninstall")
		}
		return nil
	},
}

var verifyRemote bool

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List every installed mod on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		var entries []minimod.InstalledModEntry
		if err := c.EnumerateInstalled(nil, func(e minimod.InstalledModEntry) {
			entries = append(entries, e)
		}); err != nil {
			return err
		}

		status := make([]string, len(entries))
		if verifyRemote {
			if err := verifyEntriesRemotely(cmd, c, entries, status); err != nil {
				return err
			}
		}

		header := []string{"Game", "Mod", "Path"}
		if verifyRemote {
			header = append(header, "Remote")
		}
		tableData := pterm.TableData{header}
		for i, e := range entries {
			row := []string{
				strconv.FormatUint(e.GameID, 10),
				strconv.FormatUint(e.ModID, 10),
				e.Path,
			}
			if verifyRemote {
				row = append(row, status[i])
			}
			tableData = append(tableData, row)
		}
		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

// verifyEntriesRemotely fans out one GetMod call per installed entry
// concurrently via errgroup, populating status[i] with "present" or
// "gone" for each entry's still-existing-remotely check. This mirrors the
// library's "parallel, no queue, no pool" concurrency model: every
// verification request gets its own goroutine, bridged back from the
// callback API with a channel.
func verifyEntriesRemotely(cmd *cobra.Command, c *minimod.Client, entries []minimod.InstalledModEntry, status []string) error {
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			done := make(chan struct{})
			var found bool
			c.GetMod(ctx, e.GameID, e.ModID, func(m *minimod.Mod, ok bool) {
				found = ok
				close(done)
			})
			<-done
			if found {
				status[i] = pterm.Green("present")
			} else {
				status[i] = pterm.Red("gone")
			}
			return nil
		})
	}
	return g.Wait()
}

func init() {
	installedCmd.Flags().BoolVar(&verifyRemote, "verify", false, "concurrently verify each installed mod still exists remotely")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(installedCmd)
}
