package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load 加载配置：默认值 <- 配置文件 <- 环境变量。
// path 为空时只查找工作目录下的 config.yaml；文件不存在不算错误（用默认值跑起来）。
// 环境变量前缀 SOCIAL_，层级用下划线表示，如 SOCIAL_MYSQL_DSN。
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SOCIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 显式指定的文件读不到要报错，默认路径找不到则静默用默认值
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && path != "" {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
