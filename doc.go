/*
Package custody defines all common interfaces used throughout a
multi-owner custody vault, such as: storage, messages, handlers and
caller identities.

It also provides implementations of some of the simpler components, when
interfaces would be too much overhead.
*/
package custody
