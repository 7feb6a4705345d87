package taxonomy

import "strconv"

type canonical struct {
	key   string
	label string
	order int
}

var stages = []canonical{
	{"first", "المرحلة الأولى", 1},
	{"second", "المرحلة الثانية", 2},
	{"third", "المرحلة الثالثة", 3},
	{"fourth", "المرحلة الرابعة", 4},
}

var semesters = []canonical{
	{"first", "الفصل الأول", 1},
	{"second", "الفصل الثاني", 2},
	{"third", "الفصل الثالث", 3},
	{"fourth", "الفصل الرابع", 4},
	{"fifth", "الفصل الخامس", 5},
	{"sixth", "الفصل السادس", 6},
	{"seventh", "الفصل السابع", 7},
	{"eighth", "الفصل الثامن", 8},
}

var englishSuffix = []string{"st", "nd", "rd", "th", "th", "th", "th", "th"}

// Feminine ordinals (المرحلة is feminine) with and without hamza.
var stageOrdinalsAr = [][]string{
	{"الأولى", "الاولى", "أولى", "اولى"},
	{"الثانية", "ثانية"},
	{"الثالثة", "ثالثة"},
	{"الرابعة", "رابعة"},
}

// Masculine ordinals (الفصل, الكورس) with and without hamza.
var semesterOrdinalsAr = [][]string{
	{"الأول", "الاول", "أول", "اول"},
	{"الثاني", "ثاني"},
	{"الثالث", "ثالث"},
	{"الرابع", "رابع"},
	{"الخامس", "خامس"},
	{"السادس", "سادس"},
	{"السابع", "سابع"},
	{"الثامن", "ثامن"},
}

var (
	stageAliases    = buildStageAliases()
	semesterAliases = buildSemesterAliases()
)

func buildStageAliases() map[string]canonical {
	m := make(map[string]canonical)
	for i, c := range stages {
		n := strconv.Itoa(i + 1)
		for _, a := range []string{
			c.key, n, n + englishSuffix[i],
			"stage" + n, "stage " + n, "stage-" + n,
			c.key + " stage", "stage " + c.key,
			"year " + n, c.key + " year",
		} {
			m[a] = c
		}
		for _, ar := range stageOrdinalsAr[i] {
			m[ar] = c
			m["المرحلة "+ar] = c
			m["مرحلة "+ar] = c
			m["السنة "+ar] = c
		}
		m[collapse(c.label)] = c
	}
	return m
}

func buildSemesterAliases() map[string]canonical {
	m := make(map[string]canonical)
	for i, c := range semesters {
		n := strconv.Itoa(i + 1)
		for _, a := range []string{
			c.key, n, n + englishSuffix[i],
			"semester" + n, "semester " + n, "semester-" + n,
			"sem" + n, "sem " + n, "s" + n,
			c.key + " semester", "semester " + c.key,
			"term " + n, c.key + " term",
		} {
			m[a] = c
		}
		for _, ar := range semesterOrdinalsAr[i] {
			m[ar] = c
			m["الفصل "+ar] = c
			m["فصل "+ar] = c
			m["الفصل الدراسي "+ar] = c
			m["الكورس "+ar] = c
			m["كورس "+ar] = c
		}
		m[collapse(c.label)] = c
	}
	return m
}
