package fsrs

// FSRS-4.5 model weights. Cards scheduled with one table are only compatible
// with that table, so these values must not change between releases.
const (
	w0  = 0.4072 // initial stability, Again
	w1  = 1.1829 // initial stability, Hard
	w2  = 3.1262 // initial stability, Good
	w3  = 15.4722 // initial stability, Easy
	w4  = 7.2102 // initial difficulty base
	w5  = 0.5316 // initial difficulty grade weight
	w6  = 1.0651 // difficulty delta per grade step
	w7  = 0.0234 // difficulty mean-reversion blend
	w8  = 1.616  // recall stability growth scale
	w9  = 0.1544 // recall stability saturation exponent
	w10 = 1.0824 // recall retrievability exponent
	w11 = 1.9813 // forget stability scale
	w12 = 0.0953 // forget difficulty exponent
	w13 = 0.2975 // forget stability exponent
	w14 = 2.2042 // forget retrievability exponent
	w15 = 0.2407 // hard penalty
	w16 = 2.9466 // easy bonus
)

// MinStability is the floor applied to every computed stability.
const MinStability = 0.1

// Difficulty bounds.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)
