package bookingRepo

import (
	"time"

	"barkbox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const day = 24 * time.Hour

// dayRange brackets the UTC day containing t as [start, start+24h).
func dayRange(t time.Time) bson.M {
	start := models.DayStart(t)
	return bson.M{"$gte": start, "$lt": start.Add(day)}
}

// BuildSlotFilter returns the filter matching active bookings in a slot.
func BuildSlotFilter(q SlotQuery) bson.M {
	filter := bson.M{
		"service":         q.Slot.Service,
		"appointmentTime": q.Slot.Time,
		"status":          bson.M{"$ne": models.StatusCancelled},
	}
	if q.Exact {
		filter["appointmentDate"] = q.Slot.Date
	} else {
		filter["appointmentDate"] = dayRange(q.Slot.Date)
	}
	if q.ExcludeID != "" {
		filter["id"] = bson.M{"$ne": q.ExcludeID}
	}
	return filter
}

// BuildListFilter converts the listing criteria into a query document.
// A single Date wins over StartDate/EndDate; the range is inclusive of both days.
func BuildListFilter(f ListFilter) bson.M {
	filter := bson.M{}
	if f.Service != "" {
		filter["service"] = f.Service
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PetOwner != "" {
		filter["petOwner"] = f.PetOwner
	}

	switch {
	case f.Date != nil:
		filter["appointmentDate"] = dayRange(*f.Date)
	case f.StartDate != nil || f.EndDate != nil:
		rng := bson.M{}
		if f.StartDate != nil {
			rng["$gte"] = models.DayStart(*f.StartDate)
		}
		if f.EndDate != nil {
			rng["$lt"] = models.DayStart(*f.EndDate).Add(day)
		}
		filter["appointmentDate"] = rng
	}
	return filter
}

// BuildSort returns the sort document, always ending with id ascending so
// that equal keys page deterministically.
func BuildSort(keys []SortKey) bson.D {
	if len(keys) == 0 {
		keys = []SortKey{{Field: "appointmentDate", Desc: true}}
	}
	sort := make(bson.D, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		if k.Field == "id" {
			hasID = true
		}
		sort = append(sort, bson.E{Key: k.Field, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "id", Value: 1})
	}
	return sort
}

// BuildFindOptions applies sort, skip and limit for one page.
func BuildFindOptions(q ListQuery) *options.FindOptions {
	page := q.Page.Normalize()
	return options.Find().
		SetSort(BuildSort(q.Sort)).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
}

// patchDocument builds the $set document for the provided fields.
func patchDocument(p models.BookingPatch) bson.M {
	set := bson.M{"updatedAt": p.UpdatedAt}
	if p.Service != nil {
		set["service"] = *p.Service
	}
	if p.Pet != nil {
		set["pet"] = *p.Pet
	}
	if p.PetName != nil {
		set["petName"] = *p.PetName
	}
	if p.AppointmentDate != nil {
		start := models.DayStart(*p.AppointmentDate)
		set["appointmentDate"] = start
		set["appointmentDay"] = start.Format(models.DayLayout)
	}
	if p.AppointmentTime != nil {
		set["appointmentTime"] = *p.AppointmentTime
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	return set
}
