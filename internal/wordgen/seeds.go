package wordgen

import (
	"errors"
	"fmt"
	"strings"
)

// Slot is the substitution token used by phrase templates
const Slot = "{inf}"

// ErrInvalidSeeds is returned when seed tables violate the generator contract
var ErrInvalidSeeds = errors.New("invalid seed tables")

// BaseEntry is a seed verb with its root tag and English gloss
type BaseEntry struct {
	Tag      string `toml:"tag"`
	Headword string `toml:"headword"`
	Gloss    string `toml:"gloss"`
}

// Form is a curated derived verb
type Form struct {
	Headword string `toml:"headword"`
	Gloss    string `toml:"gloss"`
}

// Derivation lists the curated forms derived from one base headword
type Derivation struct {
	Base  string `toml:"base"`
	Forms []Form `toml:"forms"`
}

// DerivativeTable keeps curated derivations in a fixed order
type DerivativeTable []Derivation

// Lookup reports whether headword has curated derivatives
func (d DerivativeTable) Lookup(headword string) ([]Form, bool) {
	for _, der := range d {
		if der.Base == headword {
			return der.Forms, true
		}
	}
	return nil, false
}

// Template is a phrase pair with one Slot in each half
type Template struct {
	Source string `toml:"source"`
	Gloss  string `toml:"gloss"`
}

// Seeds bundles every static table the generator needs
type Seeds struct {
	Base        []BaseEntry     `toml:"base"`
	Derivatives DerivativeTable `toml:"derivatives"`
	Prefixes    []string        `toml:"prefixes"`
	Templates   []Template      `toml:"templates"`
}

// Validate checks the seed tables before generation
func (s *Seeds) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: no seeds", ErrInvalidSeeds)
	}
	if len(s.Base) == 0 {
		return fmt.Errorf("%w: base list is empty", ErrInvalidSeeds)
	}
	if len(s.Templates) == 0 {
		return fmt.Errorf("%w: template list is empty", ErrInvalidSeeds)
	}

	for i, b := range s.Base {
		if strings.TrimSpace(b.Headword) == "" {
			return fmt.Errorf("%w: base entry %d has an empty headword", ErrInvalidSeeds, i)
		}
	}

	for _, der := range s.Derivatives {
		if strings.TrimSpace(der.Base) == "" {
			return fmt.Errorf("%w: derivation with empty base", ErrInvalidSeeds)
		}
		for _, f := range der.Forms {
			if strings.TrimSpace(f.Headword) == "" {
				return fmt.Errorf("%w: empty derived headword under %q", ErrInvalidSeeds, der.Base)
			}
		}
	}

	for i, t := range s.Templates {
		if strings.Count(t.Source, Slot) != 1 || strings.Count(t.Gloss, Slot) != 1 {
			return fmt.Errorf("%w: template %d must contain exactly one %s in each half", ErrInvalidSeeds, i, Slot)
		}
	}

	return nil
}

// DefaultSeeds returns the built-in Russian verb tables
func DefaultSeeds() *Seeds {
	return &Seeds{
		Base:        defaultBase(),
		Derivatives: defaultDerivatives(),
		Prefixes:    []string{"по", "про", "пере", "под", "при", "вы", "за", "на", "от", "до", "об", "с", "у", "вз", "в"},
		Templates: []Template{
			{"Я хочу {inf}.", "I want {inf}."},
			{"Он может {inf}.", "He can {inf}."},
			{"Мы будем {inf} завтра.", "We will {inf} tomorrow."},
			{"Я не хочу {inf} сегодня.", "I not want {inf} today."},
			{"Пожалуйста, не надо {inf}.", "Please, not need {inf}."},
		},
	}
}

func defaultBase() []BaseEntry {
	return []BaseEntry{
		{"дел-", "делать", "to do; to make"},
		{"сказ-", "сказать", "to say (pfv)"},
		{"говор-", "говорить", "to speak; to talk"},
		{"ид-", "идти", "to go (uni-dir)"},
		{"ход-", "ходить", "to go (multi-dir)"},
		{"вид-", "видеть", "to see"},
		{"смотр-", "смотреть", "to watch; to look"},
		{"дум-", "думать", "to think"},
		{"знал-", "знать", "to know"},
		{"пис-", "писать", "to write"},
		{"читал-", "читать", "to read"},
		{"работ-", "работать", "to work"},
		{"жил-", "жить", "to live"},
		{"хот-", "хотеть", "to want"},
		{"мочь", "мочь", "to be able; can"},
		{"брать", "брать", "to take"},
		{"взять", "взять", "to take (pfv)"},
		{"давать", "давать", "to give"},
		{"дать", "дать", "to give (pfv)"},
		{"есть", "есть", "to eat"},
		{"пить", "пить", "to drink"},
		{"сто-", "стоять", "to stand"},
		{"сид-", "сидеть", "to sit"},
		{"леж-", "лежать", "to lie (be lying)"},
		{"став-", "ставить", "to put; to set"},
		{"постав-", "поставить", "to put; to place (pfv)"},
		{"беж-", "бежать", "to run (uni-dir)"},
		{"езд-", "ездить", "to go by vehicle (multi-dir)"},
		{"ехать", "ехать", "to go by vehicle (uni-dir)"},
		{"начин-", "начинать", "to begin"},
		{"нач-", "начать", "to begin (pfv)"},
		{"конч-", "кончать", "to finish"},
		{"законч-", "закончить", "to finish (pfv)"},
		{"покуп-", "покупать", "to buy"},
		{"куп-", "купить", "to buy (pfv)"},
		{"продав-", "продавать", "to sell"},
		{"продать", "продать", "to sell (pfv)"},
		{"уч-", "учиться", "to study; to learn"},
		{"уч-", "учить", "to teach; to learn"},
		{"помог-", "помогать", "to help"},
		{"помочь", "помочь", "to help (pfv)"},
		{"игр-", "играть", "to play"},
		{"слуш-", "слушать", "to listen"},
		{"слыш-", "слышать", "to hear"},
		{"показыв-", "показывать", "to show"},
		{"показ-", "показать", "to show (pfv)"},
		{"брос-", "бросать", "to throw"},
		{"брос-", "бросить", "to throw (pfv)"},
		{"держ-", "держать", "to hold"},
		{"иск-", "искать", "to search; to look for"},
		{"най-", "найти", "to find (pfv)"},
		{"плат-", "платить", "to pay"},
		{"откры-", "открывать", "to open"},
		{"откры-", "открыть", "to open (pfv)"},
		{"закры-", "закрывать", "to close"},
		{"закры-", "закрыть", "to close (pfv)"},
		{"ждать", "ждать", "to wait"},
		{"приглаш-", "приглашать", "to invite"},
		{"приглас-", "пригласить", "to invite (pfv)"},
		{"провер-", "проверять", "to check; to verify"},
		{"провер-", "проверить", "to check (pfv)"},
		{"помнить", "помнить", "to remember"},
		{"забыв-", "забывать", "to forget"},
		{"забы-", "забыть", "to forget (pfv)"},
		{"спраш-", "спрашивать", "to ask (a question)"},
		{"спрос-", "спросить", "to ask (pfv)"},
		{"отвеч-", "отвечать", "to answer"},
		{"ответ-", "ответить", "to answer (pfv)"},
		{"жел-", "желать", "to wish"},
		{"звон-", "звонить", "to call (on the phone)"},
		{"позвон-", "позвонить", "to call (pfv)"},
		{"сним-", "снимать", "to remove; to take off; to rent"},
		{"снят-", "снять", "to remove; to take off (pfv)"},
		{"клад-", "класть", "to lay; to put"},
		{"полож-", "положить", "to put (pfv)"},
		{"мысл-", "мыслить", "to think (abstract)"},
		{"получ-", "получать", "to receive; to get"},
		{"получ-", "получить", "to receive (pfv)"},
		{"отправ-", "отправлять", "to send"},
		{"отправ-", "отправить", "to send (pfv)"},
		{"приним-", "принимать", "to accept; to take (medicine)"},
		{"прин-", "принять", "to accept; to take (pfv)"},
		{"реш-", "решать", "to decide; to solve"},
		{"реш-", "решить", "to decide; to solve (pfv)"},
		{"мен-", "менять", "to change"},
		{"помен-", "поменять", "to change (pfv)"},
		{"объясн-", "объяснять", "to explain"},
		{"объясн-", "объяснить", "to explain (pfv)"},
		{"готов-", "готовить", "to cook; to prepare"},
		{"приготов-", "приготовить", "to prepare (pfv)"},
		{"путеш-", "путешествовать", "to travel"},
		{"кат-", "кататься", "to ride; to skate"},
	}
}

func defaultDerivatives() DerivativeTable {
	return DerivativeTable{
		{"идти", []Form{
			{"войти", "to enter (pfv)"},
			{"выйти", "to exit (pfv)"},
			{"прийти", "to come (pfv)"},
			{"уйти", "to leave (pfv)"},
			{"зайти", "to stop by (pfv)"},
			{"подойти", "to approach (pfv)"},
			{"перейти", "to cross (pfv)"},
			{"сойти", "to step down (pfv)"},
			{"найтись", "to be found (pfv)"},
		}},
		{"ходить", []Form{
			{"приходить", "to come"},
			{"уходить", "to leave"},
			{"заходить", "to drop by"},
			{"подходить", "to approach; to fit"},
			{"переходить", "to cross"},
			{"входить", "to enter"},
			{"выходить", "to exit; to go out"},
			{"обходить", "to go around"},
			{"проходить", "to pass; to go through"},
			{"доходить", "to reach; to get to"},
			{"отходить", "to move away; depart"},
			{"находить", "to find"},
		}},
		{"говорить", []Form{
			{"поговорить", "to have a talk (pfv)"},
			{"договориться", "to come to terms (pfv)"},
			{"оговориться", "to misspeak (pfv)"},
			{"переговорить", "to talk over (pfv)"},
			{"рассказать", "to tell (pfv)"},
			{"досказать", "to finish saying (pfv)"},
			{"сказать", "to say (pfv)"},
		}},
		{"видеть", []Form{
			{"увидеть", "to see (pfv)"},
			{"предвидеть", "to foresee"},
			{"перевидать", "to see many (colloq)"},
			{"видеться", "to see each other"},
			{"рассмотреть", "to examine (pfv)"},
		}},
		{"писать", []Form{
			{"записать", "to write down (pfv)"},
			{"подписать", "to sign (pfv)"},
			{"переписать", "to rewrite (pfv)"},
			{"выписать", "to prescribe; to write out (pfv)"},
			{"написать", "to write (pfv)"},
			{"дописать", "to finish writing (pfv)"},
			{"описать", "to describe (pfv)"},
			{"прописать", "to register; to prescribe (pfv)"},
			{"списать", "to copy; to plagiarize (pfv)"},
		}},
		{"читать", []Form{
			{"прочитать", "to read (pfv)"},
			{"перечитать", "to reread (pfv)"},
			{"зачитать", "to read out (pfv)"},
			{"дочитать", "to finish reading (pfv)"},
			{"начитать", "to record readings (pfv)"},
		}},
		{"работать", []Form{
			{"сработать", "to work out (pfv)"},
			{"переработать", "to rework; to overwork (pfv)"},
			{"заработать", "to earn; to start working (pfv)"},
			{"отработать", "to work off; to perfect (pfv)"},
			{"доработать", "to finalize; to refine (pfv)"},
			{"проработать", "to work through; to work for (time) (pfv)"},
		}},
		{"есть", []Form{
			{"съесть", "to eat up (pfv)"},
			{"доесть", "to finish eating (pfv)"},
			{"переесть", "to overeat (pfv)"},
			{"поесть", "to eat a bit (pfv)"},
		}},
		{"пить", []Form{
			{"выпить", "to drink up (pfv)"},
			{"попить", "to drink a bit (pfv)"},
			{"запить", "to wash down (pfv)"},
			{"перепить", "to outdrink; to overdrink (pfv)"},
		}},
		{"брать", []Form{
			{"взять", "to take (pfv)"},
			{"забрать", "to take away (pfv)"},
			{"собрать", "to gather (pfv)"},
			{"набрать", "to dial; to gather (pfv)"},
			{"подобрать", "to pick up (pfv)"},
			{"отобрать", "to select; to take away (pfv)"},
			{"перебрать", "to sort (pfv)"},
			{"выбрать", "to choose (pfv)"},
		}},
		{"давать", []Form{
			{"отдавать", "to give back"},
			{"передавать", "to pass; to transmit"},
			{"раздавать", "to hand out"},
			{"даваться", "to be given; to come easy"},
		}},
		{"дать", []Form{
			{"отдать", "to give back (pfv)"},
			{"передать", "to pass; to transmit (pfv)"},
			{"выдать", "to issue (pfv)"},
			{"передаться", "to be transmitted (pfv)"},
		}},
		{"спрашивать", []Form{
			{"спросить", "to ask (pfv)"},
			{"расспросить", "to question thoroughly (pfv)"},
			{"переспросить", "to ask again (pfv)"},
		}},
		{"слушать", []Form{
			{"послушать", "to listen (pfv)"},
			{"выслушать", "to listen out (pfv)"},
			{"прослушать", "to listen through; to miss (pfv)"},
		}},
		{"смотреть", []Form{
			{"посмотреть", "to watch (pfv)"},
			{"рассмотреть", "to examine (pfv)"},
			{"пересмотреть", "to reconsider; to rewatch (pfv)"},
			{"насмотреться", "to have seen enough (pfv)"},
		}},
	}
}
