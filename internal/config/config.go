// Package config loads process-wide configuration the way
// cmd/bd/config.go binds the teacher's flags into viper: command-line flags
// take precedence, then LTZF_-prefixed environment variables, then an
// optional config.yaml, then the defaults below.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration recognized by spec.md section 6.
type Config struct {
	DBUrl string `mapstructure:"db_url"`
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`

	MailServer    string `mapstructure:"mail_server"`
	MailUser      string `mapstructure:"mail_user"`
	MailPassword  string `mapstructure:"mail_password"`
	MailSender    string `mapstructure:"mail_sender"`
	MailRecipient string `mapstructure:"mail_recipient"`

	KeyadderKey string `mapstructure:"keyadder_key"`
	KeysFile    string `mapstructure:"keys_file"`

	MergeTitleSimilarity float64 `mapstructure:"merge_title_similarity"`
	ReqLimitCount        int     `mapstructure:"req_limit_count"`
	ReqLimitInterval     int     `mapstructure:"req_limit_interval"`
	PerObjectScraperLogSize int  `mapstructure:"per_object_scraper_log_size"`
}

// BindFlags registers the recognized configuration keys as persistent flags
// on cmd and binds them into v, mirroring cmd/bd/config.go's flag-to-viper
// wiring in the teacher.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("db-url", "", "relational store connection string")
	flags.String("host", "0.0.0.0", "HTTP bind host")
	flags.Int("port", 8080, "HTTP bind port")
	flags.String("mail-server", "", "SMTP server host:port")
	flags.String("mail-user", "", "SMTP auth user")
	flags.String("mail-password", "", "SMTP auth password")
	flags.String("mail-sender", "", "notification From address")
	flags.String("mail-recipient", "", "notification To address")
	flags.String("keyadder-key", "", "bootstrap KeyAdder-scope API key")
	flags.String("keys-file", "", "TOML file of additional bootstrap API keys")
	flags.Float64("merge-title-similarity", 0.8, "trigram similarity threshold for the new-vocabulary-entry notification")
	flags.Int("req-limit-count", 4096, "token bucket capacity")
	flags.Int("req-limit-interval", 2, "token bucket refill interval, seconds")
	flags.Int("per-object-scraper-log-size", 5, "bounded provenance log size per entity")

	_ = v.BindPFlag("db_url", flags.Lookup("db-url"))
	_ = v.BindPFlag("host", flags.Lookup("host"))
	_ = v.BindPFlag("port", flags.Lookup("port"))
	_ = v.BindPFlag("mail_server", flags.Lookup("mail-server"))
	_ = v.BindPFlag("mail_user", flags.Lookup("mail-user"))
	_ = v.BindPFlag("mail_password", flags.Lookup("mail-password"))
	_ = v.BindPFlag("mail_sender", flags.Lookup("mail-sender"))
	_ = v.BindPFlag("mail_recipient", flags.Lookup("mail-recipient"))
	_ = v.BindPFlag("keyadder_key", flags.Lookup("keyadder-key"))
	_ = v.BindPFlag("keys_file", flags.Lookup("keys-file"))
	_ = v.BindPFlag("merge_title_similarity", flags.Lookup("merge-title-similarity"))
	_ = v.BindPFlag("req_limit_count", flags.Lookup("req-limit-count"))
	_ = v.BindPFlag("req_limit_interval", flags.Lookup("req-limit-interval"))
	_ = v.BindPFlag("per_object_scraper_log_size", flags.Lookup("per-object-scraper-log-size"))
}

// New builds a Viper instance wired for config.yaml discovery plus
// LTZF_-prefixed environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ltzfd")
	v.SetEnvPrefix("LTZF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml if present (ignoring a missing file) and unmarshals
// into a Config.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
