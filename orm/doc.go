/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object, the Model.
Each model is stored under the bucket prefix followed by its key,
so that a prefix scan over a bucket returns all of its models in
key order.

Sequences provide monotonically increasing counters, which are
used to assign stable identifiers to newly created models.
*/
package orm
