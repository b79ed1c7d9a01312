package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/premios/internal/adapters/cache"
	"github.com/vncsmyrnk/premios/internal/adapters/repository"
	"github.com/vncsmyrnk/premios/internal/config"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/core/services"
	"github.com/vncsmyrnk/premios/internal/log"
)

type app struct {
	cfg          config.Config
	clock        ports.Clock
	store        *repository.Store
	cache        cache.Cache
	questionRepo ports.QuestionRepository
	choiceRepo   ports.ChoiceRepository
}

// questions opens the store on first use. Writes go through the Redis cache
// the server reads from, so deleted questions and new choices are not served
// stale.
func (a *app) questions(ctx context.Context) (ports.QuestionService, error) {
	if a.store == nil {
		store, err := repository.Open(ctx, a.cfg)
		if err != nil {
			return nil, err
		}

		shared, err := cache.OpenShared(ctx, a.cfg, log.WithComponent("cache"))
		if err != nil {
			store.Close()
			return nil, err
		}

		a.store = store
		a.cache = shared
		a.questionRepo = cache.NewQuestionRepository(store.Questions, shared, a.cfg.CacheTTL, log.WithComponent("cache"))
		a.choiceRepo = cache.NewChoiceRepository(store.Choices, shared)
	}
	return services.NewQuestionService(a.questionRepo, a.choiceRepo, a.clock), nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return errors.Join(a.cache.Close(), a.store.Close())
}

func newRootCmd() *cobra.Command {
	a := &app{clock: ports.SystemClock{}}

	root := &cobra.Command{
		Use:           "pollsadmin",
		Short:         "Manage poll questions and choices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return err
			}
			log.Configure(log.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
			a.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newQuestionCmd(a),
		newChoiceCmd(a),
		newResultsCmd(a),
		newTokenCmd(a),
	)
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.questions(cmd.Context()); err != nil {
				return err
			}
			if err := a.store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", a.store.Driver)
			return nil
		},
	}
}

func newQuestionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Create, list and delete questions",
	}
	cmd.AddCommand(newQuestionCreateCmd(a), newQuestionListCmd(a), newQuestionDeleteCmd(a))
	return cmd
}

func newQuestionCreateCmd(a *app) *cobra.Command {
	var (
		text    string
		pubDate string
		choices []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question, published now unless --pub-date is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ports.CreateQuestionInput{Text: text, Choices: choices}
			if pubDate != "" {
				t, err := time.Parse(time.RFC3339, pubDate)
				if err != nil {
					return fmt.Errorf("invalid --pub-date: %w", err)
				}
				input.PubDate = &t
			}

			svc, err := a.questions(cmd.Context())
			if err != nil {
				return err
			}
			q, err := svc.Create(cmd.Context(), input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), q.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "question text")
	cmd.Flags().StringVar(&pubDate, "pub-date", "", "publication time, RFC 3339")
	cmd.Flags().StringArrayVar(&choices, "choice", nil, "choice text, repeatable")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newQuestionListCmd(a *app) *cobra.Command {
	var input ports.ListQuestionsInput

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all questions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.questions(cmd.Context())
			if err != nil {
				return err
			}
			summaries, err := svc.AdminList(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPUBLISHED\tRECENT\tQUESTION")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.ID, s.PubDate.Format(time.RFC3339), s.WasPublishedRecently, s.Text)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&input.Page, "page", 1, "page number")
	cmd.Flags().StringVarP(&input.Query, "query", "q", "", "filter by question text")
	return cmd
}

func newQuestionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <question-id>",
		Short: "Delete a question and its choices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.questions(cmd.Context())
			if err != nil {
				return err
			}
			return svc.Delete(cmd.Context(), args[0])
		},
	}
}

func newChoiceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choice",
		Short: "Manage the choices of a question",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <question-id> <text>",
		Short: "Add a choice to a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.questions(cmd.Context())
			if err != nil {
				return err
			}
			choice, err := svc.AddChoice(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), choice.ID)
			return nil
		},
	})
	return cmd
}

func newResultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "results <question-id>",
		Short: "Print the vote count of every choice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.questions(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := svc.AdminGet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), summary.Question)
		},
	}
}

func printResults(out io.Writer, q domain.Question) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", q.Text)
	for _, c := range q.Choices {
		fmt.Fprintf(w, "%s\t%d\n", c.Text, c.Votes)
	}
	fmt.Fprintf(w, "total\t%d\n", q.TotalVotes())
	return w.Flush()
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.AdminJWTSecret == "" {
				return errors.New("ADMIN_JWT_SECRET is not set")
			}
			auth := services.NewAuthService(a.cfg.AdminJWTSecret, a.clock)
			token, err := auth.IssueToken(cmd.Context(), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
