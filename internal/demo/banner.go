package demo

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var bannerLines = []struct {
	text, color string
}{
	{`                                 _        _     _   _         `, "#818cf8"},
	{`  ___ ___  _ __  ___  ___  | | ___| |__ | |_| |_ _ __  `, "#a78bfa"},
	{` / __/ _ \| '_ \/ __|/ _ \ | |/ _ \ '_ \| __| __| '_ \ `, "#c084fc"},
	{`| (_| (_) | | | \__ \ (_) || |  __/ | | | |_| |_| |_) |`, "#e879f9"},
	{` \___\___/|_| |_|___/\___/ |_|\___|_| |_|\__|\__| .__/ `, "#f472b6"},
	{`                                                 |_|    `, "#fb7185"},
}

func newBannerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banner",
		Short: "Print the banner",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := termenv.TrueColor
			w := cmd.OutOrStdout()
			for _, l := range bannerLines {
				fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
			}
			return nil
		},
	}
}
