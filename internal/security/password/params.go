package password

type Params struct {
	Memory      uint32 // kibibytes
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is ~128MB, t=3.
func DefaultParams() Params {
	return Params{
		Memory:      131072,
		Iterations:  3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// WithCost overrides the tunable costs; zero values keep the defaults.
func (p Params) WithCost(memory, iterations uint32, parallelism uint8) Params {
	if memory > 0 {
		p.Memory = memory
	}
	if iterations > 0 {
		p.Iterations = iterations
	}
	if parallelism > 0 {
		p.Parallelism = parallelism
	}
	return p
}
