package browser

const scrollIntoViewScript = `(el) => el.scrollIntoView({block: 'center'})`
