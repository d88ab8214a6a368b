package sqlinline

const QSelectIntegrationToken = `--sql 30dbe68d-6cd0-4f30-b9fd-5a927f22dafe
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 60190027-7101-40d3-b44c-a5b3f5002b1a
insert into integration_tokens (provider, token, properties, created_at, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
