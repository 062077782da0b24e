package bobbin

import "go.uber.org/zap"

type Option func(*containerConfig)

func WithLogger(logger *zap.Logger) Option {
	return func(cfg *containerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPostProcessor adds p to the chain at construction time.
func WithPostProcessor(p PostProcessor) Option {
	return func(cfg *containerConfig) {
		if p != nil {
			cfg.processors = append(cfg.processors, p)
		}
	}
}

func WithCreateObserver(hook CreateHook) Option {
	return func(cfg *containerConfig) {
		cfg.onCreate = append(cfg.onCreate, hook)
	}
}

func WithRegisterObserver(hook RegisterHook) Option {
	return func(cfg *containerConfig) {
		cfg.onRegister = append(cfg.onRegister, hook)
	}
}
