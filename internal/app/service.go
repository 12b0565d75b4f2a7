package app

import (
	"github.com/debarchive/britney/internal/adapters"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/ports"
)

// Service holds one instance of every port adapter a run needs, built
// once by NewService (the teacher's internal/app/service.go pattern:
// construct every adapter behind its port interface, hand the interfaces
// to the rest of app).
type Service struct {
	SuiteLoader  ports.SuiteLoaderPort
	HintLoader   ports.HintLoaderPort
	StateFiles   ports.StateFilesPort
	Heidi        ports.HeidiWriterPort
	ExcusesYAML  func(*hints.HintStore) ports.ExcusesYAMLPort
	NuninstCache ports.NuninstCachePort
	UpgradeLog   ports.UpgradeLogPort
}

// NewService builds a Service backed by the file-based adapters.
func NewService() Service {
	return Service{
		SuiteLoader: adapters.NewSuiteLoaderFileAdapter(),
		HintLoader:  adapters.NewHintsFileAdapter(),
		StateFiles:  adapters.NewStateFilesAdapter(),
		Heidi:       adapters.NewHeidiFileAdapter(),
		ExcusesYAML: func(store *hints.HintStore) ports.ExcusesYAMLPort {
			return adapters.NewExcusesYAMLAdapter(store)
		},
		NuninstCache: adapters.NewNuninstCacheFileAdapter(),
		UpgradeLog:   adapters.NewUpgradeLogFileAdapter(),
	}
}
