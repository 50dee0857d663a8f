package featureflag

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/hostwire/hostwire/pkg/config"
)

func IsDev() bool {
	if viper.IsSet("feature.dev") {
		return viper.GetBool("feature.dev")
	}
	return strings.HasPrefix(config.Version, "dev") || config.Version == ""
}

func LoadFeatureFlags(path string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/hostwire/")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("hostwire")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig() // do not need to fail if can't find config file

	return nil
}
