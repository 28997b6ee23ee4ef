package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	account_purge "account_purge"
	"account_purge/biz/config"
	"account_purge/biz/dal/repo"
	"account_purge/biz/db"
	"account_purge/biz/db/mysql"
	"account_purge/biz/service/purge"
	"account_purge/biz/util/id_gen"
	"account_purge/biz/util/logger"
	"account_purge/biz/util/trace_info"

	"github.com/spf13/cobra"
)

var (
	configPath string
	uid        int64
	callerUID  int64
)

var rootCmd = &cobra.Command{
	Use:   "purge",
	Short: "Deletes forum user accounts and everything that references them",
	Long: `Deletes forum user accounts and everything that references them. Usage:

	purge user --uid 42 --caller 1
	purge content --uid 42 --caller 1
	purge account --uid 42
	purge audit --uid 42
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			configPath = os.Getenv("PURGE_CONFIG")
		}
		if configPath == "" {
			configPath = "conf/deploy.yml"
		}
		config.Init(configPath)
		logger.Init()
		db.Init()
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Deletes a user's content and then the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPurger(cmd.Context(), func(ctx context.Context, svc *purge.Service) error {
			u, err := svc.Delete(ctx, callerUID, uid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d (%s)\n", u.UID, u.Username)
			return nil
		})
	},
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Deletes only what the user authored",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPurger(cmd.Context(), func(ctx context.Context, svc *purge.Service) error {
			if err := svc.DeleteContent(ctx, callerUID, uid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted content of user %d\n", uid)
			return nil
		})
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Deletes the account, leaving authored content to its owners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPurger(cmd.Context(), func(ctx context.Context, svc *purge.Service) error {
			u, err := svc.DeleteAccount(ctx, uid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted account %d (%s)\n", u.UID, u.Username)
			return nil
		})
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Lists recorded deletions of a user, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.GetPurgeConf().Audit {
			return errors.New("audit is disabled, set purge.audit in the config")
		}
		audits, err := repo.NewPurgeAuditRepository(mysql.GetDbConn()).ListByUID(cmd.Context(), uid)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, a := range audits {
			fmt.Fprintf(out, "%s\t%s\t%s\tcaller=%d\tcost=%v", a.StartedAt.Format("2006-01-02 15:04:05"), a.PurgeID, a.Status, a.CallerUID, a.Duration)
			if a.Error != "" {
				fmt.Fprintf(out, "\tphase=%s\terr=%s", a.Phase, a.Error)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func withPurger(ctx context.Context, fn func(ctx context.Context, svc *purge.Service) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, cleanup, err := account_purge.NewPurger()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx = trace_info.WithLogId(ctx, id_gen.NewID())
	ctx = trace_info.WithTargetUid(ctx, uid)
	return fn(ctx, svc)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $PURGE_CONFIG or conf/deploy.yml)")

	for _, c := range []*cobra.Command{userCmd, contentCmd, accountCmd, auditCmd} {
		c.Flags().Int64Var(&uid, "uid", 0, "uid of the user to delete")
		_ = c.MarkFlagRequired("uid")
		rootCmd.AddCommand(c)
	}
	userCmd.Flags().Int64Var(&callerUID, "caller", 0, "uid the deletion is attributed to")
	contentCmd.Flags().Int64Var(&callerUID, "caller", 0, "uid the deletion is attributed to")
}
