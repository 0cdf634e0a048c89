package common

import "github.com/MattSScott/basePlatformSOMAS/v2/pkg/message"

// BallotMessage carries a citizen's publicly stated ballot to district
// peers. Stated ballots are cheap talk: the server only ever counts
// submitted ballots, but personas may listen to what neighbours claim.
type BallotMessage struct {
	message.BaseMessage
	Stated Ballot
}

// AdoptionMessage is the elected delegate's digest of the allocation the
// district settled on, broadcast at the end of an iteration.
type AdoptionMessage struct {
	message.BaseMessage
	Campaign Campaign
	Adopted  []int
}

func (msg *BallotMessage) InvokeMessageHandler(citizen ICitizen) {
	citizen.HandleBallotMessage(msg)
}

func (msg *AdoptionMessage) InvokeMessageHandler(citizen ICitizen) {
	citizen.HandleAdoptionMessage(msg)
}
