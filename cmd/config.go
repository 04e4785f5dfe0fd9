package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tuplegen/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tuplegen configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "seed: %d\n", c.Seed)
		fmt.Fprintf(out, "count: %d\n", c.Count)
		fmt.Fprintf(out, "sinks: %s\n", strings.Join(c.Sinks, ","))
		fmt.Fprintf(out, "out_dir: %s\n", c.OutDir)
		fmt.Fprintf(out, "runs_dir: %s\n", c.RunsDir)
		fmt.Fprintf(out, "sqlite_path: %s\n", c.SQLitePath)
		if c.PostgresDSN != "" {
			fmt.Fprintf(out, "postgres_dsn: %s\n", mask(c.PostgresDSN))
		}
		if c.TablePrefix != "" {
			fmt.Fprintf(out, "table_prefix: %s\n", c.TablePrefix)
		}
		if c.S3Bucket != "" {
			fmt.Fprintf(out, "s3_bucket: %s\n", c.S3Bucket)
			fmt.Fprintf(out, "s3_region: %s\n", c.S3Region)
			fmt.Fprintf(out, "s3_prefix: %s\n", c.S3Prefix)
			if c.S3Endpoint != "" {
				fmt.Fprintf(out, "s3_endpoint: %s\n", c.S3Endpoint)
			}
			fmt.Fprintf(out, "s3_path_style: %t\n", c.S3PathStyle)
			if c.S3AccessKeyID != "" {
				fmt.Fprintf(out, "s3_access_key_id: %s\n", mask(c.S3AccessKeyID))
			}
		}
		if c.MetricsTextfile != "" {
			fmt.Fprintf(out, "metrics_textfile: %s\n", c.MetricsTextfile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Edit the file contents only; env overrides must not be persisted
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := applyConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func applyConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "seed":
		u, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid uint for seed: %w", err)
		}
		c.Seed = u
	case "count":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid count: %v", val)
		}
		c.Count = i
	case "sinks":
		names, err := parseSinkList(val)
		if err != nil {
			return err
		}
		c.Sinks = names
	case "out_dir":
		c.OutDir = val
	case "runs_dir":
		c.RunsDir = val
	case "sqlite_path":
		c.SQLitePath = val
	case "postgres_dsn":
		c.PostgresDSN = val
	case "table_prefix":
		c.TablePrefix = val
	case "s3_bucket":
		c.S3Bucket = val
	case "s3_region":
		c.S3Region = val
	case "s3_endpoint":
		c.S3Endpoint = val
	case "s3_prefix":
		c.S3Prefix = val
	case "s3_path_style":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for s3_path_style: %w", err)
		}
		c.S3PathStyle = b
	case "s3_access_key_id":
		c.S3AccessKeyID = val
	case "s3_secret_access_key":
		c.S3SecretAccessKey = val
	case "metrics_textfile":
		c.MetricsTextfile = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
