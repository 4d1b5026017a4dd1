package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ChurnRulesHolder keeps the churn threshold table in effect and swaps it when
// churn.yml changes on disk.
type ChurnRulesHolder struct {
	current atomic.Value // holds churn.Rules
	log     *zap.Logger
}

// NewChurnRulesHolder reads churn.yml from the configured directory, falling
// back to churn.DefaultRules when no file exists.
func NewChurnRulesHolder(cfg Config, log *zap.Logger) (*ChurnRulesHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := viper.New()

	v.SetConfigName("churn")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.Dashboard.ChurnRulesDir)
	v.AddConfigPath("/etc/telco360")

	v.SetEnvPrefix("TELCO360")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &ChurnRulesHolder{log: log.Named("churn.rules")}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(churn.DefaultRules())
		return holder, nil
	}

	rules, err := decodeChurnRules(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(rules)
	holder.log.Info("churn rules loaded", zap.String("file", v.ConfigFileUsed()))

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeChurnRules(v)
		if err != nil {
			holder.log.Warn("churn rules reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		holder.log.Info("churn rules reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// Current implements churn.Source.
func (h *ChurnRulesHolder) Current() churn.Rules {
	return h.current.Load().(churn.Rules)
}

func decodeChurnRules(v *viper.Viper) (churn.Rules, error) {
	if !v.IsSet("churn") {
		return churn.Rules{}, errors.New("churn section is missing")
	}
	var rules churn.Rules
	if err := v.UnmarshalKey("churn", &rules); err != nil {
		return churn.Rules{}, err
	}
	rules = fillChurnDefaults(v, rules)
	if err := rules.Validate(); err != nil {
		return churn.Rules{}, err
	}
	return rules, nil
}

// fillChurnDefaults keeps the default for every key the file leaves out, so a
// file that only moves the cutoffs still scores all five factors. A key set
// to an empty list stays empty and fails validation.
func fillChurnDefaults(v *viper.Viper, rules churn.Rules) churn.Rules {
	def := churn.DefaultRules()
	if !v.IsSet("churn.tenure") {
		rules.Tenure = def.Tenure
	}
	if !v.IsSet("churn.satisfaction") {
		rules.Satisfaction = def.Satisfaction
	}
	if !v.IsSet("churn.supportTickets") {
		rules.SupportTickets = def.SupportTickets
	}
	if !v.IsSet("churn.overdueAmount") {
		rules.OverdueAmount = def.OverdueAmount
	}
	if !v.IsSet("churn.daysSincePayment") {
		rules.DaysSincePayment = def.DaysSincePayment
	}
	if !v.IsSet("churn.highCutoff") {
		rules.HighCutoff = def.HighCutoff
	}
	if !v.IsSet("churn.mediumCutoff") {
		rules.MediumCutoff = def.MediumCutoff
	}
	return rules
}

var _ churn.Source = (*ChurnRulesHolder)(nil)
