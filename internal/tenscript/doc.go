// Package tenscript reads fabric plans written as s-expressions.
//
// A plan names a seed brick, a tree of growth instructions, an optional list
// of shape operations and optional pretense settings:
//
//	(fabric
//	  (name "Halo by Crane")
//	  (build (seed :left)
//	         (grow A+ 5 (scale 92%)
//	            (branch (grow B- 12 (mark A+ :halo-end))
//	                    (grow D- 11 (mark A+ :halo-end)))))
//	  (shape (pull-together :halo-end)
//	         (vulcanize :bow-tie)))
//
// Parsing happens in three layers. Scan produces positioned tokens, Parse
// builds an Expr tree and PlanFromExpr interprets it. Every failure is an
// *Error carrying the offending term and its line and column.
package tenscript
