//go:build !markovcache_debug

package markovcache

const debugging = false

func assertInvariant(bool, string) {}
