package config

type WorkerKeyStruct struct {
	PersistActivityQueue    string
	ActivityDeadLetterQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistActivityQueue:    "persist_activity_queue",
	ActivityDeadLetterQueue: "activity_dead_letter_queue",
}
