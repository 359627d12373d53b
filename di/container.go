package di

import (
	"github.com/samber/do/v2"
	"github.com/web3tea/journal-sentinel/config"
	"github.com/web3tea/journal-sentinel/store"
)

func SetupContainer(cfgPath string) do.Injector {

	injector := do.New()

	do.ProvideNamedValue(injector, "configPath", cfgPath)
	do.Provide(injector, NewConfig)
	do.Provide(injector, NewCheckpointStore)

	return injector
}

func NewConfig(i do.Injector) (*config.Config, error) {
	return config.LoadFromFile(do.MustInvokeNamed[string](i, "configPath"))
}

func NewCheckpointStore(i do.Injector) (*store.FileStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return store.NewFileStore(cfg.Checkpoint.Dir)
}
