package cmd

import (
	"strconv"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"minimod"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List games hosted on the selected environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		var games []minimod.Game
		var wg sync.WaitGroup
		wg.Add(1)

		spinner, _ := pterm.DefaultSpinner.Start("Fetching games...")
		c.GetGames(cmd.Context(), "", func(g []minimod.Game, p minimod.Pagination) {
			games = g
			wg.Done()
		})
		wg.Wait()

		if games == nil {
			spinner.Fail("request failed")
			return nil
		}
		spinner.Success("fetched", len(games), "game(s)")

		tableData := pterm.TableData{{"ID", "Name"}}
		for _, g := range games {
			tableData = append(tableData, []string{strconv.FormatUint(g.ID, 10), g.Name})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

var modsCmd = &cobra.Command{
	Use:   "mods [gameID]",
	Short: "List mods published under a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		var mods []minimod.Mod
		var wg sync.WaitGroup
		wg.Add(1)

		spinner, _ := pterm.DefaultSpinner.Start("Fetching mods...")
		c.GetMods(cmd.Context(), gameID, "", func(m []minimod.Mod, p minimod.Pagination) {
			mods = m
			wg.Done()
		})
		wg.Wait()

		if mods == nil {
			spinner.Fail("request failed")
			return nil
		}
		spinner.Success("fetched", len(mods), "mod(s)")

		tableData := pterm.TableData{{"ID", "Name", "Downloads", "Subscribers"}}
		for _, m := range mods {
			tableData = append(tableData, []string{
				strconv.FormatUint(m.ID, 10),
				m.Name,
				strconv.FormatInt(m.Stats.Downloads, 10),
				strconv.FormatInt(m.Stats.Subscribers, 10),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(modsCmd)
}
