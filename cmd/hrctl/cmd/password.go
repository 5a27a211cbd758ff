package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KunjGarala/Dayflow/internal/service"
)

const minPasswordLen = 8

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "生成 bcrypt 密码哈希",
	Long: `生成与登录校验一致的 bcrypt 哈希，用于手工重置账号密码。
未提供参数时从标准输入读取一行。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if len(args) == 1 {
			plain = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("未读取到密码")
			}
			plain = strings.TrimRight(line, "\r\n")
		}
		if len(plain) < minPasswordLen {
			return fmt.Errorf("密码长度不能少于 %d 位", minPasswordLen)
		}

		hash, err := service.HashPassword(plain)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
