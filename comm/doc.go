// Package comm provides the blocking collective operations used by the
// distributed multiply engine: broadcast, scatter, gather and barrier over a
// fixed group of ranks.
//
// Collectives are built on a minimal point-to-point Transport. Every
// collective is a rendezvous: a rank blocks inside the call until the
// matching call on the peers has supplied or consumed its data. All
// algorithms are root-centric (the root talks to every other rank directly),
// so a star-shaped transport such as comm/wsnet is sufficient.
//
// Transports never share memory between ranks: data handed to Send is
// copied or serialized, and each Recv yields a buffer owned by the caller.
//
// Implementations:
//
//	comm/local  one goroutine per rank, channel mailboxes (in-process group)
//	comm/wsnet  one OS process per rank, websocket star around rank 0
package comm
