package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "检查图书借出状态与未归还记录是否一致，不一致时返回非零退出码",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cleanup, err := InitializeVerifier(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			mismatches, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}
			if len(mismatches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "OK: 图书状态与借阅记录一致")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BOOK_ID\tBORROWED\tOPEN_BORROWS")
			for _, m := range mismatches {
				fmt.Fprintf(w, "%d\t%t\t%v\n", m.BookID, m.Borrowed, m.OpenBorrows)
			}
			_ = w.Flush()
			return fmt.Errorf("发现%d处不一致", len(mismatches))
		},
	}
}
