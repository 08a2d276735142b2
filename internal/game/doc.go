// Package game implements the blackjack rules engine for a single player
// against the house.
//
// The main type is Game, which owns the shoe, the dealer and the player and
// drives one round at a time through four entry points:
//
//	g := game.New(randutil.New(42))
//	status, err := g.StartRound(100)   // Ongoing, or DealerWon on a dealer natural
//	status, err = g.ApplyAction(game.Hit)
//	status, err = g.ApplyAction(game.Stand)
//	status, err = g.PlayDealersTurn()  // PlayerWon, DealerWon or Draw
//	err = g.SettleRound(status)
//
// Calls made out of order fail with ErrOutOfSequence and leave the table
// untouched. Split is recognised but always fails with ErrSplitUnsupported.
//
// # Deterministic Testing
//
// Inject a stacked shoe to control every card:
//
//	shoe := deck.NewStackedShoe(rng, 1, deck.MustParseCards("Th 8s Kc Qd")...)
//	g := game.New(rng, game.WithShoe(shoe))
//
// # Card visibility
//
// Dealer and Player draws return DrawEvent values; only the Game applies
// visible cards to the running count in PlayerStats. The dealer's hole card
// stays hidden, both from the count and from PlayerView, until the dealer's
// turn, except on a dealer natural where it is shown but not counted.
//
// Game performs no locking. Servers sharing a Game between requests must
// hold a lock for the full duration of each call.
package game
