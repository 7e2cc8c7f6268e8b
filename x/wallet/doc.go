/*
Package wallet implements a vault jointly controlled by a fixed set of
owners.

Anyone can deposit into the vault. Moving funds out requires a transfer
that is proposed by one owner and approved by a quorum of distinct owners.
The proposer approval is recorded when the transfer is created. When the
last required approval is recorded the balance is debited and the transfer
is marked as executed, within the same call. Executed transfers cannot be
approved again.

Owners are identified by their address. Each owner has a unique bit
position given by its place in the roster, and is reported as 1 << i.
The roster and the quorum are set in the genesis file and cannot be
changed afterwards.
*/
package wallet

//go:generate protoc -I=../.. -I=$GOPATH/src --gogofaster_out=../.. ../../x/wallet/codec.proto
