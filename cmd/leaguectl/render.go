package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/standing"
	"github.com/riskibarqy/league-sheets/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// report prints a query result in the selected format. Missing data is not
// an error; broken configuration and unreachable sheets are.
func report[T any](
	cmd *cobra.Command,
	res usecase.QueryResult[T],
	what string,
	table func(io.Writer, []T) error,
	toJSON func(T) any,
) error {
	out := cmd.OutOrStdout()
	switch res.Status {
	case usecase.StatusOK:
	case usecase.StatusNotAvailable:
		fmt.Fprintf(out, "%s: %s\n", what, res.FetchError)
		return nil
	default:
		return fmt.Errorf("%s: %s", res.Status, res.FetchError)
	}

	if res.FromCache && res.HasCachedAt() {
		fmt.Fprintf(cmd.ErrOrStderr(), "using cached data from %s (%s)\n",
			res.CachedAt.Local().Format("2006-01-02 15:04"), humanize.Time(res.CachedAt))
	}

	switch format := strings.ToLower(viper.GetString("output")); format {
	case outputJSON:
		items := make([]any, 0, len(res.Data))
		for _, item := range res.Data {
			items = append(items, toJSON(item))
		}
		return sonic.ConfigStd.NewEncoder(out).Encode(items)
	case outputTable, "":
		if len(res.Data) == 0 {
			fmt.Fprintf(out, "%s: no rows\n", what)
			return nil
		}
		return table(out, res.Data)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func standingsTable(w io.Writer, rows []standing.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "POS\tTEAM\tW\tL\tGD\t+/-\tWIN%\t\t")
	for _, s := range rows {
		playoff := ""
		if s.InPlayoffs {
			playoff = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%+d\t%+d\t%s\t%s\t\n",
			s.Position, s.Team, s.Wins, s.Losses, s.GameDiff, s.GoalDiff, s.WinPercentage, playoff)
	}
	return tw.Flush()
}

func rankingsTable(w io.Writer, rows []ranking.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tPOINTS\tMOVE\tHISTORY")
	for _, e := range rows {
		history := make([]string, 0, len(e.History))
		for _, h := range e.History {
			history = append(history, optionalInt(h))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			optionalInt(e.Rank),
			e.Name,
			strconv.FormatFloat(e.Points, 'f', -1, 64),
			movement(e.Movement),
			strings.Join(history, " "),
		)
	}
	return tw.Flush()
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func movement(v *int) string {
	switch {
	case v == nil:
		return "-"
	case *v > 0:
		return "+" + strconv.Itoa(*v)
	case *v == 0:
		return "="
	default:
		return strconv.Itoa(*v)
	}
}

type standingJSON struct {
	Position      int    `json:"position"`
	Team          string `json:"team"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GameDiff      int    `json:"gameDiff"`
	GoalDiff      int    `json:"goalDiff"`
	WinPercentage string `json:"winPercentage"`
	InPlayoffs    bool   `json:"inPlayoffs"`
}

func standingsJSON(s standing.Standing) any {
	return standingJSON{
		Position:      s.Position,
		Team:          s.Team,
		Wins:          s.Wins,
		Losses:        s.Losses,
		GameDiff:      s.GameDiff,
		GoalDiff:      s.GoalDiff,
		WinPercentage: s.WinPercentage,
		InPlayoffs:    s.InPlayoffs,
	}
}

type rankingJSON struct {
	Name     string  `json:"name"`
	Rank     *int    `json:"rank"`
	Points   float64 `json:"points"`
	Movement *int    `json:"movement"`
}

func rankingsJSON(e ranking.Entry) any {
	return rankingJSON{Name: e.Name, Rank: e.Rank, Points: e.Points, Movement: e.Movement}
}
