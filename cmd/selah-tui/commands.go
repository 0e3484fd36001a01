package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func searchCmd(flags *globalFlags) *cobra.Command {
	var (
		limit         int
		caseSensitive bool
	)
	cmd := &cobra.Command{
		Use:   "search <text or reference>",
		Short: "Search verses by text or reference",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.app.Corpus()
			if c == nil {
				return errNoTranslation()
			}
			if limit <= 0 {
				limit = s.app.Config().Search.MaxResults
			}
			cs := s.app.Config().Search.CaseSensitive
			if cmd.Flags().Changed("case-sensitive") {
				cs = caseSensitive
			}
			results := c.Find(strings.Join(args, " "), limit, cs)

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\n", r.Reference, r.Display())
			}
			fmt.Fprintf(out, "%d results\n", len(results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case exactly (default from config)")
	return cmd
}

func refCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "ref <book chapter[:verse]>",
		Short:   "Print a verse or a whole chapter",
		Example: "  selah-tui ref João 3:16\n  selah-tui ref Salmos 23",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.app.Corpus()
			if c == nil {
				return errNoTranslation()
			}
			ref := strings.Join(args, " ")
			r, ok := c.SearchByReference(ref)
			if !ok {
				return fmt.Errorf("reference not found: %s", ref)
			}

			out := cmd.OutOrStdout()
			// "Book C" prints the chapter; "Book C:V" the verse alone.
			if strings.Contains(ref, ":") {
				fmt.Fprintf(out, "%s\n%s\n", r.Reference, r.Text)
				return nil
			}
			fmt.Fprintf(out, "%s %d\n", c.BookName(r.Book), r.Chapter+1)
			for i, v := range c.Chapter(r.Book, r.Chapter) {
				fmt.Fprintf(out, "%3d  %s\n", i+1, v)
			}
			return nil
		},
	}
}

func statsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.app.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chapters read: %d of %d (%.1f%%)\n", st.ChaptersRead, st.TotalChapters, st.ProgressPercent)
			fmt.Fprintf(out, "Verses read:   %d\n", st.TotalVersesRead)
			fmt.Fprintf(out, "Time reading:  %dh %02dm\n", st.Hours, st.Minutes)
			return nil
		},
	}
}

func favoritesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite verses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.Close()

			favs, err := s.app.Favorites()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range favs {
				fmt.Fprintf(out, "%s\t%s\n", f.Reference, f.Text)
				if f.Note != "" {
					fmt.Fprintf(out, "\t%s\n", f.Note)
				}
			}
			fmt.Fprintf(out, "%d favorites\n", len(favs))
			return nil
		},
	}
}

func historyCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage reading history",
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase chapters read, verse count and reading time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Clear all reading history? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.app.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(clearCmd)
	return cmd
}

func translationsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "translations",
		Aliases: []string{"tr"},
		Short:   "Manage downloaded translations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List downloaded translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(flags)
				if err != nil {
					return err
				}
				defer s.Close()

				ids, err := s.app.CachedTranslations()
				if err != nil {
					return err
				}
				size, err := s.app.CacheSize()
				if err != nil {
					return err
				}
				current := s.app.Settings().BibleVersion
				out := cmd.OutOrStdout()
				for _, id := range ids {
					mark := " "
					if id == current {
						mark = "*"
					}
					fmt.Fprintf(out, "%s %s\n", mark, id)
				}
				fmt.Fprintf(out, "%d translations, %.1f MB\n", len(ids), float64(size)/(1<<20))
				return nil
			},
		},
		&cobra.Command{
			Use:   "available",
			Short: "List translations in the remote catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(flags)
				if err != nil {
					return err
				}
				defer s.Close()

				ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
				defer cancel()
				list, err := s.app.RemoteTranslations(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, t := range list {
					fmt.Fprintf(out, "%-10s %-12s %s\n", t.ShortName, t.Language, t.FullName)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "download <id>...",
			Short: "Download translations",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(flags)
				if err != nil {
					return err
				}
				defer s.Close()

				for _, id := range args {
					ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
					err := s.app.DownloadTranslation(ctx, id)
					cancel()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s\n", id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Delete a downloaded translation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(flags)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.app.RemoveTranslation(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func errNoTranslation() error {
	return fmt.Errorf("no translation selected; run %s to choose one or pass --translation", appName)
}
