package library

var (
	liftFields   = []Field{FieldWeight, FieldReps}
	bodyweight   = []Field{FieldReps}
	cardioFields = []Field{FieldDistance, FieldDuration}
	holdFields   = []Field{FieldDuration}
)

var defaultExercises = []Exercise{
	{Name: "Bench", Category: CategoryUpperBodyPush, Fields: liftFields},
	{Name: "Bench Press", Category: CategoryUpperBodyPush, Fields: liftFields},
	{Name: "Incline Bench Press", Category: CategoryUpperBodyPush, Fields: liftFields},
	{Name: "Overhead Press", Category: CategoryUpperBodyPush, Fields: liftFields},
	{Name: "Dips", Category: CategoryUpperBodyPush, Fields: bodyweight},
	{Name: "Push-Up", Category: CategoryUpperBodyPush, Fields: bodyweight},
	{Name: "Pull-Up", Category: CategoryUpperBodyPull, Fields: bodyweight},
	{Name: "Chin-Up", Category: CategoryUpperBodyPull, Fields: bodyweight},
	{Name: "Barbell Row", Category: CategoryUpperBodyPull, Fields: liftFields},
	{Name: "Lat Pulldown", Category: CategoryUpperBodyPull, Fields: liftFields},
	{Name: "Biceps Curl", Category: CategoryUpperBodyPull, Fields: liftFields},
	{Name: "Squat", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Front Squat", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Romanian Deadlift", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Leg Press", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Lunge", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Calf Raise", Category: CategoryLowerBody, Fields: liftFields},
	{Name: "Plank", Category: CategoryCore, Fields: holdFields},
	{Name: "Hanging Leg Raise", Category: CategoryCore, Fields: bodyweight},
	{Name: "Ab Wheel", Category: CategoryCore, Fields: bodyweight},
	{Name: "Run", Category: CategoryCardio, Fields: cardioFields},
	{Name: "Row Erg", Category: CategoryCardio, Fields: cardioFields},
	{Name: "Cycling", Category: CategoryCardio, Fields: cardioFields},
	{Name: "Jump Rope", Category: CategoryCardio, Fields: holdFields},
	{Name: "Deadlift", Category: CategoryFullBody, Fields: liftFields},
	{Name: "Clean and Jerk", Category: CategoryFullBody, Fields: liftFields},
	{Name: "Kettlebell Swing", Category: CategoryFullBody, Fields: liftFields},
	{Name: "Burpee", Category: CategoryFullBody, Fields: bodyweight},
}

// Default returns the built-in exercise library.
func Default() *Library {
	lib, err := New(defaultExercises)
	if err != nil {
		panic(err)
	}
	return lib
}
