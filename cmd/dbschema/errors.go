package main

// errorChain renders err as the bullet-list trace spec §7 mandates
// ("the top-level driver prints the chain as a bullet list").
func errorChain(err error) []string {
	type chainer interface{ Chain() []string }
	if ce, ok := err.(chainer); ok {
		return ce.Chain()
	}
	return []string{err.Error()}
}
