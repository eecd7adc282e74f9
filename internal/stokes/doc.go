// Package stokes computes translational and angular particle
// velocities in a viscous fluid from applied forces and torques,
// using the Stokesian Dynamics method of Durlofsky, Brady and Bossis
// (J. Fluid Mech. 180, 21-49, 1987).
//
// The Stokes equations are linear, so the relation between the stacked
// force/torque vector F and the stacked velocity vector U of all
// particles is a matrix: U = M_UF * F, with M_UF the grand mobility
// matrix. One velocity computation runs through fixed stages:
//
//  1. pair geometry: unit separation vectors, distances, overlap check
//  2. mobility assembly: self terms (Stokes' law and its rotational
//     and stresslet analogues) plus far-field pair terms
//  3. reduction: invert the mobility matrix; with the extended
//     force-torque-stresslet (FTS) formulation, eliminate the
//     stresslet degrees of freedom by a Schur complement
//  4. lubrication: add near-field pair resistance corrections that the
//     truncated far-field expansion misses
//  5. thermalization: optional random force with covariance
//     2*kT/dt * R_FU, per the fluctuation-dissipation theorem
//  6. final solve: U = R_FU^-1 (F_ext + F_rnd)
//
// Stages 2 and 4 evaluate the two-sphere mobility and resistance
// functions of the paper's appendix; unequal radii are handled with
// the mean radius of each pair in the non-dimensionalization.
//
// # Thread safety
//
// Solver instances are NOT safe for concurrent use: the grand matrices
// are persistent per-solver storage overwritten on every call. Use one
// Solver per goroutine or serialize calls.
package stokes
