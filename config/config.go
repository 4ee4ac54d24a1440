package config

// Initialize 空方法，导入本包即可触发各配置文件的 init 注册
func Initialize() {}
