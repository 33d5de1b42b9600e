// Package offer contains the Offer entity: a time-boxed proposal of one
// delivery leg to one courier. Offers resolve exactly once (accepted,
// declined, expired or cancelled), which is what makes first-accept-wins
// safe under concurrent responses.
package offer
