package constants

// Status - статус записи (заявки) или этапа согласования.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) String() string { return string(s) }

// IsFinal - решение по записи окончательное и больше не меняется.
func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Decision - действие согласующего над текущим этапом.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// EntryKind - вид записи, проходящей согласование.
type EntryKind string

const (
	KindLeave      EntryKind = "LEAVE"
	KindPermission EntryKind = "PERMISSION"
	KindCompOff    EntryKind = "COMP_OFF"
	KindTravel     EntryKind = "TRAVEL"
)

// ApprovableKinds в порядке вывода во входящих.
var ApprovableKinds = []EntryKind{KindLeave, KindPermission, KindCompOff, KindTravel}

func ParseEntryKind(raw string) (EntryKind, bool) {
	for _, k := range ApprovableKinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// Человекочитаемые названия для уведомлений.
var KindTitles = map[EntryKind]string{
	KindLeave:      "Заявка на отпуск",
	KindPermission: "Заявка на отлучку",
	KindCompOff:    "Заявка на отгул (comp-off)",
	KindTravel:     "Командировочные расходы (TADA)",
}

// DurationType - продолжительность отпуска в пределах дня.
type DurationType string

const (
	DurationFullDay    DurationType = "FULL_DAY"
	DurationFirstHalf  DurationType = "FIRST_HALF"
	DurationSecondHalf DurationType = "SECOND_HALF"
)

func (d DurationType) IsHalfDay() bool {
	return d == DurationFirstHalf || d == DurationSecondHalf
}

// CompOffDuration - отработанная продолжительность за выходной день.
type CompOffDuration string

const (
	CompOffFullDay CompOffDuration = "FULL_DAY"
	CompOffHalfDay CompOffDuration = "HALF_DAY"
)

// PeriodType - период графика смен.
type PeriodType string

const (
	PeriodWeek  PeriodType = "WEEK"
	PeriodMonth PeriodType = "MONTH"
)
