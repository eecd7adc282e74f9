// Package compute provides the linear-algebra and parallel-map
// capability the stokes kernel is written against.
//
// The kernel never touches goroutines or factorizations directly; it
// asks the active [Backend] for
//
//   - ParallelFor: a data-parallel map over an index range,
//   - Mul / MulVec: dense matrix products,
//   - Inverse: a direct dense inverse,
//   - InverseAndCholesky: inverse plus matrix square root of the same
//     symmetric positive definite matrix in one factorization.
//
// The CPU backend implements these on gonum with chunked worker
// goroutines. Accelerator implementations can be installed with
// [SetBackend]; correctness of callers must not depend on whether a
// backend runs the map bodies in parallel or sequentially.
package compute
