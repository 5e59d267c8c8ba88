// Package tokencount counts how many tokens a multiset of integers grows into when a fixed
// per-token rule is applied for many generations, without materializing the multiset.
//
// Rule (applied to every token, every generation):
//
//	0                     -> 1
//	even number of digits -> left half, right half (leading zeros dropped)
//	otherwise             -> token * 2024
//
// Components:
//   - Evaluate: the rule itself, pure and overflow-checked.
//   - Cache: shared (token, steps) -> count mapping. ShardedCache is the in-process
//     default; NewProviderCache puts any byte store behind it (BigCache, Ristretto, Redis).
//   - Counter: memoized recursion over (token, steps).
//   - Dispatcher: one work item per initial token on a bounded worker pool, reduced by
//     overflow-checked addition.
//
// Typical use:
//
//	tokens, _ := tokencount.ParseTokens(strings.NewReader("125 17"))
//	res, err := tokencount.Run(ctx, tokens, 75, tokencount.RunOptions{})
//	fmt.Println(res.Total)
//
// Width: tokens and counts are uint64. Any odd-length token above 9114003988986932
// (every 17- and 19-digit token) overflows the multiply rule and any population past
// 18446744073709551615 overflows the sum; both surface as ErrOverflow.
package tokencount
