package sim

import "fmt"

// ExampleSimulator shows a complete short run: configure, advance, and read
// the clock. Two bursts of steps are equivalent to one longer burst.
func ExampleSimulator() {
	cfg := DefaultConfig()
	cfg.Grid.Rows = 10
	cfg.Grid.Cols = 10

	s, err := NewSimulator(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	s.LogEvery = 0

	if err := s.Advance(3); err != nil {
		fmt.Println(err)
		return
	}
	if err := s.Advance(2); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("steps=%d t=%.0f yr\n", s.StepCount(), s.Now())
	// Output: steps=5 t=5000 yr
}
