// Package xconf 基于 koanf 加载 YAML/JSON 配置。
//
// 只提供加载与反序列化；其余操作通过 Client() 直接使用 koanf。
//
//	cfg, err := xconf.New("/etc/xw3c/config.yaml")
//	if err != nil {
//		return err
//	}
//	var tc xtracectx.Config
//	if err := cfg.Unmarshal("trace", &tc); err != nil {
//		return err
//	}
package xconf
