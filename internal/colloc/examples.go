package colloc

import "fmt"

// Example is one bilingual example sentence built around a collocation.
type Example struct {
	EN string
	FA string
}

// BuildExamples expands a collocation into example sentences across
// tenses and contexts. Verb phrases get inflected sentences; noun phrases
// get descriptive ones. Both sets end with a handful of context
// variations.
func BuildExamples(en, fa string) []Example {
	var out []Example
	add := func(e, f string) { out = append(out, Example{EN: e, FA: f}) }

	if looksLikeVerbPhrase(en) {
		v, rest := splitVerbPhrase(en)
		r := ""
		if rest != "" {
			r = " " + rest
		}
		add(fmt.Sprintf("In the photo, they are %s%s.", Gerund(v), r),
			fmt.Sprintf("در عکس آن‌ها دارند %s انجام می‌دهند.", fa))
		add(fmt.Sprintf("I %s%s yesterday, and it felt amazing.", Past(v), r),
			fmt.Sprintf("دیروز من %s کردم و حسش عالی بود.", fa))
		add(fmt.Sprintf("I have %s%s many times while traveling.", PastParticiple(v), r),
			fmt.Sprintf("من بارها %s کرده‌ام (هنگام سفر).", fa))
		add(fmt.Sprintf("Next time, I will %s%s earlier to save time.", v, r),
			fmt.Sprintf("دفعه بعد زودتر %s می‌کنم تا وقت ذخیره شود.", fa))
		add(fmt.Sprintf("While I was %s%s, I noticed an important detail.", Gerund(v), r),
			fmt.Sprintf("وقتی داشتم %s می‌کردم، یک جزئیات مهم دیدم.", fa))
		add(fmt.Sprintf("You should %s%s before you make a decision.", v, r),
			fmt.Sprintf("بهتر است قبل از تصمیم گرفتن %s انجام بدهی.", fa))
		add(fmt.Sprintf("From a TOEFL speaking perspective, %s helps you sound natural.", en),
			fmt.Sprintf("از نظر اسپیکینگ TOEFL، «%s» باعث طبیعی‌تر شدن صحبت می‌شود.", fa))
	} else {
		add(fmt.Sprintf("This collocation (**%s**) is useful for describing scenes clearly.", en),
			fmt.Sprintf("این کالوکیشن (**%s**) برای توصیف صحنه‌ها مفید است.", fa))
		add(fmt.Sprintf("I noticed **%s** in the city last week.", en),
			fmt.Sprintf("هفته قبل «%s» را در شهر دیدم.", fa))
		add(fmt.Sprintf("People often mention **%s** when they tell stories.", en),
			fmt.Sprintf("مردم اغلب هنگام تعریف داستان از «%s» استفاده می‌کنند.", fa))
		add(fmt.Sprintf("In academic writing, you can use **%s** to be more precise.", en),
			fmt.Sprintf("در نوشتار آکادمیک، «%s» کمک می‌کند دقیق‌تر باشی.", fa))
	}

	contexts := []struct{ en, fa string }{
		{"at work", "در محل کار"},
		{"at school", "در مدرسه/دانشگاه"},
		{"while traveling", "هنگام سفر"},
		{"in the city", "در شهر"},
	}
	for _, c := range contexts {
		add(fmt.Sprintf("I can %s %s when I need a quick example.", en, c.en),
			fmt.Sprintf("من می‌توانم %s را %s به عنوان مثال سریع به کار ببرم.", fa, c.fa))
	}
	return out
}
