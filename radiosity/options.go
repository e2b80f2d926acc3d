package radiosity

// Solver tuning options.
type Options struct {
	// Upper bound on the estimated form factor that still allows linking a
	// patch pair without further subdivision.
	FEps float32

	// Minimum patch area in world units squared. Subdivision that would
	// produce children below this floor is refused.
	AEps float32

	// Per-link radiometric energy threshold. Links whose estimated energy
	// transfer stays at or below it on every channel are not refined.
	BFEps float32

	// Number of gather/push-pull relaxation steps per solve pass.
	MaxIterations int
}

// Default solver options. Tuned for unit-sized scenes.
func DefaultOptions() Options {
	return Options{
		FEps:          0.05,
		AEps:          1e-3,
		BFEps:         1e-3,
		MaxIterations: 8,
	}
}
