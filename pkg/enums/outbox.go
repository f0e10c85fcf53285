package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	OutboxEventLeadCreated      OutboxEventType = "lead.created"
	OutboxEventLeadAssigned     OutboxEventType = "lead.assigned"
	OutboxEventLeadUnassigned   OutboxEventType = "lead.unassigned"
	OutboxEventLeadStageChanged OutboxEventType = "lead.stage_changed"
	OutboxEventLeadDeleted      OutboxEventType = "lead.deleted"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateLead OutboxAggregateType = "lead"
)

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// String implements fmt.Stringer.
func (t OutboxAggregateType) String() string {
	return string(t)
}
